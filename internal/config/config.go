package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// ShareBaseURL is prefixed to share tokens when building links handed
	// back to the UI (e.g. "https://trips.example.com/s").
	ShareBaseURL string `json:"share_base_url,omitempty"`

	// PreviewTimeoutSecs bounds the metadata-fetch call. 0 means the
	// default of 10 seconds.
	PreviewTimeoutSecs int `json:"preview_timeout_secs,omitempty"`

	// MailerEndpoint is the invitation-email service URL. Empty disables
	// real sends (invites to unknown emails then fail upstream).
	MailerEndpoint string `json:"mailer_endpoint,omitempty"`

	// MailerTimeoutSecs bounds the email-send call. 0 means 10 seconds.
	MailerTimeoutSecs int `json:"mailer_timeout_secs,omitempty"`

	// ListMaxLimit caps the page size of listing operations.
	ListMaxLimit int `json:"list_max_limit,omitempty"`

	// DBMaxOpenConns limits open database connections. If set to 1, all
	// database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// Default values applied by DefaultConfig and Merge.
const (
	DefaultPreviewTimeoutSecs = 10
	DefaultMailerTimeoutSecs  = 10
	DefaultListMaxLimit       = 100
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ShareBaseURL:       "http://localhost:8080/s",
		PreviewTimeoutSecs: DefaultPreviewTimeoutSecs,
		MailerTimeoutSecs:  DefaultMailerTimeoutSecs,
		ListMaxLimit:       DefaultListMaxLimit,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tripstash.
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge overlays non-zero values from override onto base and returns the
// result. Neither argument is mutated.
func Merge(base, override *Config) *Config {
	merged := *base
	if override == nil {
		return &merged
	}
	if override.ShareBaseURL != "" {
		merged.ShareBaseURL = override.ShareBaseURL
	}
	if override.PreviewTimeoutSecs > 0 {
		merged.PreviewTimeoutSecs = override.PreviewTimeoutSecs
	}
	if override.MailerEndpoint != "" {
		merged.MailerEndpoint = override.MailerEndpoint
	}
	if override.MailerTimeoutSecs > 0 {
		merged.MailerTimeoutSecs = override.MailerTimeoutSecs
	}
	if override.ListMaxLimit > 0 {
		merged.ListMaxLimit = override.ListMaxLimit
	}
	if override.DBMaxOpenConns > 0 {
		merged.DBMaxOpenConns = override.DBMaxOpenConns
	}
	if override.DBMaxIdleConns > 0 {
		merged.DBMaxIdleConns = override.DBMaxIdleConns
	}
	return &merged
}
