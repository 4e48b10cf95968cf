package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfigYAML() string {
	return `
app:
  name: test
  env: test
http:
  port: 8080
timezone:
  default_zone: Europe/London
retry:
  max_attempts: 3
  policies:
    - reason: default
      delays_minutes: [60]
      fallback: send_sms_fallback
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Timezone.DefaultZone != "Europe/London" {
		t.Errorf("default zone = %q, want Europe/London", cfg.Timezone.DefaultZone)
	}
	if got := len(cfg.Retry.Policies); got != 1 {
		t.Fatalf("policies = %d, want 1", got)
	}
	if cfg.Retry.Policies[0].Reason != "default" {
		t.Errorf("policy reason = %q, want default", cfg.Retry.Policies[0].Reason)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }},
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }},
		{"missing default zone", func(c *Config) { c.Timezone.DefaultZone = "" }},
		{"non-positive max attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"no policies", func(c *Config) { c.Retry.Policies = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validConfigYAML()))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
