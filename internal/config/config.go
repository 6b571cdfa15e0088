package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Tracking TrackingConfig
	Dump     DumpConfig
	Storage  StorageConfig
	Sentry   SentryConfig
	Log      LogConfig
}

// TrackingConfig holds tracking-server connection configuration
type TrackingConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	APIPrefix      string `mapstructure:"api_prefix"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}

// Timeout returns the HTTP client timeout
func (c TrackingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasAuth reports whether basic-auth credentials are configured
func (c TrackingConfig) HasAuth() bool {
	return c.Username != "" && c.Password != ""
}

// DumpConfig holds dump traversal configuration
type DumpConfig struct {
	Output      string   `mapstructure:"output"`
	Keywords    []string `mapstructure:"keywords"`
	MaxResults  int      `mapstructure:"max_results" validate:"gte=1,lte=1000"`
	Concurrency int      `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

// StorageConfig holds optional object-storage upload configuration
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// Enabled reports whether dump uploads are configured
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != ""
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Enabled reports whether Sentry reporting is configured
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
