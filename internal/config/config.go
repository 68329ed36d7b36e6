// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names recognized by Load.
const (
	envTagKey           = "TAG_KEY"
	envTagValue         = "TAG_VALUE"
	envRegion           = "AWS_REGION"
	envMaxRetries       = "MAX_RETRIES"
	envRetryBaseDelay   = "RETRY_BASE_DELAY"
	envHibernate        = "HIBERNATE_ON_STOP"
	envMetricsEnabled   = "METRICS_ENABLED"
	envMetricsNamespace = "METRICS_NAMESPACE"
)

// Config holds the settings for one shutdown run.
type Config struct {
	TagKey           string
	TagValue         string
	Region           string
	MaxRetries       int
	RetryBaseDelay   time.Duration
	Hibernate        bool
	MetricsEnabled   bool
	MetricsNamespace string
}

// ValidationError reports a configuration value that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Default returns the built-in settings with no environment applied.
// The region is left empty; callers supply it themselves.
func Default() Config {
	return Config{
		TagKey:           "AutoShutdown",
		TagValue:         "yes",
		MaxRetries:       3,
		RetryBaseDelay:   time.Second,
		MetricsNamespace: "Autostop",
	}
}

// Load reads the configuration from environment variables and validates it.
// RETRY_BASE_DELAY is a number of seconds and may be fractional.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(envTagKey, "AutoShutdown")
	v.SetDefault(envTagValue, "yes")
	v.SetDefault(envMaxRetries, 3)
	v.SetDefault(envRetryBaseDelay, 1.0)
	v.SetDefault(envHibernate, false)
	v.SetDefault(envMetricsEnabled, false)
	v.SetDefault(envMetricsNamespace, "Autostop")

	cfg := Config{
		TagKey:           v.GetString(envTagKey),
		TagValue:         v.GetString(envTagValue),
		Region:           v.GetString(envRegion),
		MaxRetries:       v.GetInt(envMaxRetries),
		RetryBaseDelay:   time.Duration(v.GetFloat64(envRetryBaseDelay) * float64(time.Second)),
		Hibernate:        v.GetBool(envHibernate),
		MetricsEnabled:   v.GetBool(envMetricsEnabled),
		MetricsNamespace: v.GetString(envMetricsNamespace),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Region == "" {
		return &ValidationError{Field: envRegion, Reason: "must be set and not empty"}
	}
	if c.MaxRetries < 1 {
		return &ValidationError{Field: envMaxRetries, Reason: "must be a positive integer"}
	}
	if c.RetryBaseDelay < 0 {
		return &ValidationError{Field: envRetryBaseDelay, Reason: "must not be negative"}
	}
	return nil
}
