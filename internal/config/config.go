package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/madisonlabs/marketlens/internal/model"
)

// Environment variables carrying the webhook settings. The header value is a
// secret and must never be logged or echoed.
const (
	EnvWebhookURL  = "N8N_WEBHOOK_URL"
	EnvHeaderName  = "N8N_HEADER_NAME"
	EnvHeaderValue = "N8N_HEADER_VALUE"

	// EnvConfigPath optionally points at the YAML tuning file.
	EnvConfigPath = "MARKETLENS_CONFIG"
)

const defaultConfigFile = "marketlens.yaml"

// Config is the root configuration for MarketLens.
type Config struct {
	Webhook WebhookConfig
	History HistoryConfig
}

// WebhookConfig holds everything needed for the single outbound call.
// URL, HeaderName and HeaderValue come from the environment; Timeout from the
// optional YAML file.
type WebhookConfig struct {
	URL         string
	HeaderName  string
	HeaderValue string
	Timeout     time.Duration
}

// HistoryConfig controls the local report history store.
type HistoryConfig struct {
	Enabled bool
	Path    string
	MaxAge  time.Duration // prune horizon for `history --prune`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	Timeout string           `yaml:"timeout"`
	History rawHistoryConfig `yaml:"history"`
}

type rawHistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
	MaxAge  string `yaml:"max_age"`
}

// Load builds the configuration: a best-effort .env load, then the optional
// YAML tuning file, then the webhook environment variables. An empty path
// means "use MARKETLENS_CONFIG or ./marketlens.yaml if present"; an explicit
// path that cannot be read is a ConfigError.
//
// Load does not require the webhook variables to be set; commands that are
// about to call the webhook must also call Config.ValidateWebhook.
func Load(path string) (*Config, error) {
	// Secrets may live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Webhook: WebhookConfig{
			Timeout: 60 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "reports.db",
			MaxAge:  30 * 24 * time.Hour,
		},
	}

	explicit := path != ""
	if path == "" {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path = env
			explicit = true
		} else {
			path = defaultConfigFile
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			// No tuning file, defaults apply.
			readEnv(cfg)
			return cfg, validate(cfg)
		}
		return nil, &model.ConfigError{Reason: fmt.Sprintf("read config file %s", path), Err: err}
	}

	// Expand environment variables so the file can reference $HOME etc.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("parse config file %s", path), Err: err}
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("parse timeout %q", raw.Timeout), Err: err}
		}
		cfg.Webhook.Timeout = d
	}
	if raw.History.Enabled != nil {
		cfg.History.Enabled = *raw.History.Enabled
	}
	if raw.History.Path != "" {
		cfg.History.Path = raw.History.Path
	}
	if raw.History.MaxAge != "" {
		d, err := time.ParseDuration(raw.History.MaxAge)
		if err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("parse history.max_age %q", raw.History.MaxAge), Err: err}
		}
		cfg.History.MaxAge = d
	}

	readEnv(cfg)
	return cfg, validate(cfg)
}

func readEnv(cfg *Config) {
	cfg.Webhook.URL = strings.TrimSpace(os.Getenv(EnvWebhookURL))
	cfg.Webhook.HeaderName = strings.TrimSpace(os.Getenv(EnvHeaderName))
	cfg.Webhook.HeaderValue = os.Getenv(EnvHeaderValue)
}

func validate(cfg *Config) error {
	if cfg.Webhook.Timeout <= 0 {
		return &model.ConfigError{Reason: fmt.Sprintf("timeout must be positive, got %v", cfg.Webhook.Timeout)}
	}
	if cfg.History.MaxAge <= 0 {
		return &model.ConfigError{Reason: fmt.Sprintf("history.max_age must be positive, got %v", cfg.History.MaxAge)}
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		return &model.ConfigError{Reason: "history.path must not be empty when history is enabled"}
	}
	return nil
}

// ValidateWebhook enforces the three required environment values. Called by
// the commands that actually contact the webhook, before any UI is shown.
func (c *Config) ValidateWebhook() error {
	if c.Webhook.URL == "" {
		return &model.ConfigError{Reason: EnvWebhookURL + " is not set"}
	}
	u, err := url.Parse(c.Webhook.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &model.ConfigError{Reason: fmt.Sprintf("%s must be an http(s) URL, got %q", EnvWebhookURL, c.Webhook.URL)}
	}
	if c.Webhook.HeaderName == "" {
		return &model.ConfigError{Reason: EnvHeaderName + " is not set"}
	}
	if strings.TrimSpace(c.Webhook.HeaderValue) == "" {
		return &model.ConfigError{Reason: EnvHeaderValue + " is not set"}
	}
	return nil
}
