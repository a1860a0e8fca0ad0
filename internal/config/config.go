// Package config handles configuration for boathouse, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDSN: SQLite database path or ":memory:".
//   - SecretKey: HMAC secret for signing admin session tokens (HS256).
//   - SessionValidityDuration: admin session token lifetime.
//   - MetricsAddr: bind address of the prometheus endpoint; empty disables it.
//   - LogLevel: debug, info, warn or error.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: archive storage settings.
//   - RootOnlyAdmins: admins are either root or unprivileged; permission sets
//     are refused instead of stored.
type Config struct {
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	MetricsAddr             string
	LogLevel                string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	RootOnlyAdmins          bool
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "boathouse.db"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 30 * time.Minute
	c.MetricsAddr = ":9102"
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "boathouse"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Load builds a Config by applying defaults, then the JSON file named by the
// --config flag, if any, and finally every flag set explicitly on fs.
// fs must have been populated by RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := applyJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	return cfg, nil
}
