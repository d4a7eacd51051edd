package http

import (
	"net/http/httptest"
	"testing"
)

func TestOriginPolicyCheck(t *testing.T) {
	policy := newOriginPolicy([]string{"https://meet.example.com", "not a url", " http://localhost:3000 "})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://meet.example.com", true},
		{"HTTPS://Meet.Example.com", true},
		{"http://localhost:3000", true},
		{"http://meet.example.com", false},
		{"https://evil.example.com", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/ws/abc", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := policy.check(r); got != tt.want {
			t.Errorf("check(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestOriginPolicyWildcard(t *testing.T) {
	policy := newOriginPolicy([]string{"*"})
	r := httptest.NewRequest("GET", "/ws/abc", nil)
	r.Header.Set("Origin", "https://anything.test")
	if !policy.check(r) {
		t.Error("wildcard policy rejected an origin")
	}
}
