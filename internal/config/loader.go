package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/tracedump/tracedump/internal/validator"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Optionally read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tracedump")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	var cfg Config

	// Tracking server
	cfg.Tracking.URL = strings.TrimRight(v.GetString("tracking_url"), "/")
	cfg.Tracking.APIPrefix = v.GetString("tracking_api_prefix")
	cfg.Tracking.Username = v.GetString("tracking_username")
	cfg.Tracking.Password = v.GetString("tracking_password")
	cfg.Tracking.TimeoutSeconds = v.GetInt("tracking_timeout_seconds")

	// Dump
	cfg.Dump.Output = v.GetString("dump_output")
	cfg.Dump.Keywords = v.GetStringSlice("dump_keywords")
	cfg.Dump.MaxResults = v.GetInt("dump_max_results")
	cfg.Dump.Concurrency = v.GetInt("dump_concurrency")

	// Object storage
	cfg.Storage.Endpoint = v.GetString("storage_endpoint")
	cfg.Storage.AccessKey = v.GetString("storage_access_key")
	cfg.Storage.SecretKey = v.GetString("storage_secret_key")
	cfg.Storage.UseSSL = v.GetBool("storage_use_ssl")
	cfg.Storage.Bucket = v.GetString("storage_bucket")

	// Sentry
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	cfg.Sentry.Debug = v.GetBool("sentry_debug")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Tracking server defaults
	v.SetDefault("tracking_api_prefix", "/api/2.0/mlflow")
	v.SetDefault("tracking_timeout_seconds", 30)

	// Dump defaults
	v.SetDefault("dump_max_results", 1000)
	v.SetDefault("dump_concurrency", 1)

	// Object storage defaults
	v.SetDefault("storage_use_ssl", false)
	v.SetDefault("storage_bucket", "tracedump-exports")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Validate checks required fields. Called after CLI flag overrides have
// been applied on top of the loaded configuration.
func (cfg *Config) Validate() error {
	if err := validator.Validate(cfg.Tracking); err != nil {
		return err
	}
	return validator.Validate(cfg.Dump)
}
