package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWriterJSON(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	var buf bytes.Buffer
	if err := InitWriter(&buf, "warn", "json"); err != nil {
		t.Fatalf("InitWriter failed: %v", err)
	}

	log.Info().Msg("hidden")
	log.Warn().Str("room_id", "abc").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "shown" || entry["room_id"] != "abc" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInitWriterRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}
