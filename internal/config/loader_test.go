package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom with missing file: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("expected default session TTL 30m, got %s", cfg.Session.TTL)
	}
	if cfg.Rate.MaxRequests != 10 {
		t.Errorf("expected default rate max 10, got %d", cfg.Rate.MaxRequests)
	}
	if cfg.Agent.MaxResumeRounds != 8 {
		t.Errorf("expected default max resume rounds 8, got %d", cfg.Agent.MaxResumeRounds)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roamguide.yaml")
	yaml := `
server:
  port: "9090"
session:
  ttl: 10m
rate:
  max_requests: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Session.TTL != 10*time.Minute {
		t.Errorf("expected TTL 10m, got %s", cfg.Session.TTL)
	}
	if cfg.Rate.MaxRequests != 3 {
		t.Errorf("expected rate max 3, got %d", cfg.Rate.MaxRequests)
	}
	// Untouched sections keep their defaults.
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %s", cfg.LLM.Model)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roamguide.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ROAMGUIDE_PORT", "7070")
	t.Setenv("ROAMGUIDE_SESSION_TTL", "1h")
	t.Setenv("ROAMGUIDE_RATE_MAX_REQUESTS", "25")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("env should win over yaml: got %s", cfg.Server.Port)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("expected TTL 1h from env, got %s", cfg.Session.TTL)
	}
	if cfg.Rate.MaxRequests != 25 {
		t.Errorf("expected rate max 25 from env, got %d", cfg.Rate.MaxRequests)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"zero ttl", "session:\n  ttl: 0s\n", "session.ttl"},
		{"zero window", "rate:\n  window: 0s\n", "rate.window"},
		{"zero max requests", "rate:\n  max_requests: 0\n", "rate.max_requests"},
		{"zero resume rounds", "agent:\n  max_resume_rounds: 0\n", "max_resume_rounds"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roamguide.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roamguide.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
