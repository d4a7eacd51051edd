package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServeRejectsMissingConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"serve", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Errorf("Execute error = %v, want read config failure", err)
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	rootCmd.SetArgs([]string{"serve", "--config", path})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "log.format") {
		t.Errorf("Execute error = %v, want validation failure", err)
	}
}
