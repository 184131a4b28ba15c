// Package config provides configuration loading, defaults, and validation for
// PatQuery-Bridge.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 10 * time.Second
	DefaultGenerateTTL    = 5 * time.Minute
	DefaultConvertTTL     = 15 * time.Minute

	DefaultGoogleBaseURL = "https://patents.google.com/"
	DefaultUSPTOBaseURL  = "https://ppubs.uspto.gov/pubwebapp/external.html"

	DefaultClientBaseURL = "http://localhost:8080"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultGenerateTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "patquery"
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Query ─────────────────────────────────────────────────────────────────
	if cfg.Query.RequestTimeout == 0 {
		cfg.Query.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Query.GenerateTTL == 0 {
		cfg.Query.GenerateTTL = DefaultGenerateTTL
	}
	if cfg.Query.ConvertTTL == 0 {
		cfg.Query.ConvertTTL = DefaultConvertTTL
	}
	if cfg.Query.GoogleBaseURL == "" {
		cfg.Query.GoogleBaseURL = DefaultGoogleBaseURL
	}
	if cfg.Query.USPTOBaseURL == "" {
		cfg.Query.USPTOBaseURL = DefaultUSPTOBaseURL
	}

	// ── Client ────────────────────────────────────────────────────────────────
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = DefaultClientBaseURL
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = DefaultRequestTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
