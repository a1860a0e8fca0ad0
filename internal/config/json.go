package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/boathouse/internal/timex"
)

// JsonConfig is the on-disk shape of a configuration file. Durations use
// timex.Duration so both "30m" and integer nanoseconds are accepted.
type JsonConfig struct {
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	MetricsAddr             *string        `json:"metrics_addr"`
	LogLevel                string         `json:"log_level"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	RootOnlyAdmins          *bool          `json:"root_only_admins"`
}

// applyJSONFile overlays the values present in the file at path onto cfg.
// Absent or empty keys keep the current value; metrics_addr may be set to ""
// explicitly to disable the endpoint.
func applyJSONFile(cfg *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	if c.SessionValidityDuration.Duration != 0 {
		cfg.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.MetricsAddr != nil {
		cfg.MetricsAddr = *c.MetricsAddr
	}
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.RootOnlyAdmins != nil {
		cfg.RootOnlyAdmins = *c.RootOnlyAdmins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
