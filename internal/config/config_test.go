package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/madisonlabs/marketlens/internal/model"
)

func setWebhookEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvWebhookURL, "https://n8n.example.com/webhook/abc")
	t.Setenv(EnvHeaderName, "X-Auth-Token")
	t.Setenv(EnvHeaderValue, "s3cret")
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	setWebhookEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Webhook.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Webhook.Timeout)
	}
	if !cfg.History.Enabled || cfg.History.Path != "reports.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Webhook.URL != "https://n8n.example.com/webhook/abc" {
		t.Errorf("URL = %q", cfg.Webhook.URL)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	setWebhookEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "marketlens.yaml")
	content := `
timeout: 30s
history:
  enabled: false
  path: my.db
  max_age: 48h
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Webhook.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Webhook.Timeout)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.Path != "my.db" || cfg.History.MaxAge != 48*time.Hour {
		t.Errorf("History = %+v", cfg.History)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	setWebhookEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	var cerr *model.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load: expected ConfigError for missing explicit file, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	setWebhookEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("timeout: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var cerr *model.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load: expected ConfigError for invalid YAML, got %v", err)
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	setWebhookEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "marketlens.yaml")
	if err := os.WriteFile(path, []byte("timeout: -5s"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var cerr *model.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load: expected ConfigError for negative timeout, got %v", err)
	}
}

func TestValidateWebhook_MissingValues(t *testing.T) {
	cases := []struct {
		name string
		url  string
		hdr  string
		val  string
	}{
		{"missing url", "", "X-Auth", "v"},
		{"bad url scheme", "ftp://example.com", "X-Auth", "v"},
		{"not a url", "just text", "X-Auth", "v"},
		{"missing header name", "https://example.com/hook", "", "v"},
		{"missing header value", "https://example.com/hook", "X-Auth", "  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvWebhookURL, tc.url)
			t.Setenv(EnvHeaderName, tc.hdr)
			t.Setenv(EnvHeaderValue, tc.val)
			t.Chdir(t.TempDir())

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			err = cfg.ValidateWebhook()
			var cerr *model.ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("ValidateWebhook: expected ConfigError, got %v", err)
			}
		})
	}
}

func TestValidateWebhook_OK(t *testing.T) {
	setWebhookEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateWebhook(); err != nil {
		t.Fatalf("ValidateWebhook: %v", err)
	}
}
