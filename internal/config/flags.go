package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig          = "config"
	flagDatabaseDSN     = "database"
	flagSecretKey       = "secret-key"
	flagSessionValidity = "session-validity"
	flagMetricsAddr     = "metrics-addr"
	flagLogLevel        = "log-level"
	flagS3User          = "s3-user"
	flagS3Password      = "s3-password"
	flagS3Bucket        = "s3-bucket"
	flagS3Region        = "s3-region"
	flagS3Endpoint      = "s3-endpoint"
	flagRootOnlyAdmins  = "root-only-admins"
)

// RegisterFlags defines the configuration flags on fs with the defaults as
// their documented values. Typically fs is a cobra root command's persistent
// flag set.
//
//	-c, --config string            JSON configuration file
//	-d, --database string          SQLite database path
//	-s, --secret-key string        session token HMAC secret
//	    --session-validity dur     session token lifetime
//	    --metrics-addr string      prometheus endpoint address
//	    --log-level string         log level
//	    --s3-user, --s3-password, --s3-bucket, --s3-region, --s3-endpoint
//	    --root-only-admins             refuse per-admin permission sets
func RegisterFlags(fs *pflag.FlagSet) {
	d := &Config{}
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "JSON configuration file")
	fs.StringP(flagDatabaseDSN, "d", d.DatabaseDSN, "SQLite database path")
	fs.StringP(flagSecretKey, "s", d.SecretKey, "session token secret key")
	fs.Duration(flagSessionValidity, d.SessionValidityDuration, "session token validity")
	fs.String(flagMetricsAddr, d.MetricsAddr, "address of the metrics endpoint (empty disables it)")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(flagS3User, d.S3RootUser, "S3 root user")
	fs.String(flagS3Password, d.S3RootPassword, "S3 root password")
	fs.String(flagS3Bucket, d.S3Bucket, "S3 archive bucket")
	fs.String(flagS3Region, d.S3Region, "S3 region")
	fs.String(flagS3Endpoint, d.S3BaseEndpoint, "S3 base endpoint")
	fs.Bool(flagRootOnlyAdmins, d.RootOnlyAdmins, "admins are root or unprivileged; refuse permission sets")
}

// applyFlags copies the flags the user actually set into cfg, so a JSON file
// value is only overridden when a flag is given on the command line.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	var failed string
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagDatabaseDSN:
			cfg.DatabaseDSN = f.Value.String()
		case flagSecretKey:
			cfg.SecretKey = f.Value.String()
		case flagSessionValidity:
			cfg.SessionValidityDuration, err = fs.GetDuration(flagSessionValidity)
		case flagMetricsAddr:
			cfg.MetricsAddr = f.Value.String()
		case flagLogLevel:
			cfg.LogLevel = f.Value.String()
		case flagS3User:
			cfg.S3RootUser = f.Value.String()
		case flagS3Password:
			cfg.S3RootPassword = f.Value.String()
		case flagS3Bucket:
			cfg.S3Bucket = f.Value.String()
		case flagS3Region:
			cfg.S3Region = f.Value.String()
		case flagS3Endpoint:
			cfg.S3BaseEndpoint = f.Value.String()
		case flagRootOnlyAdmins:
			cfg.RootOnlyAdmins, err = fs.GetBool(flagRootOnlyAdmins)
		}
		if err != nil {
			failed = f.Name
		}
	})
	if err != nil {
		return fmt.Errorf("flag %s: %w", failed, err)
	}
	return nil
}
