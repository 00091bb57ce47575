// Package config loads process configuration for the modelattr binaries from
// flags, environment variables (prefixed MODELATTR_) and an optional file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Keys of the configuration values. Environment variables replace dots with
// underscores, e.g. MODELATTR_LOG_LEVEL.
const (
	KeyLogLevel            = "log.level"
	KeyLogPretty           = "log.pretty"
	KeySchemaFile          = "schema.file"
	KeyStreamEventNames    = "stream.event_names"
	KeyStreamFailOnInvalid = "stream.fail_on_invalid"
	KeyMetricsEnabled      = "metrics.enabled"
)

// Config represents the process configuration.
type Config struct {
	Log     LogConfig
	Schema  SchemaConfig
	Stream  StreamConfig
	Metrics MetricsConfig
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// SchemaConfig locates the schema definition file.
type SchemaConfig struct {
	File string
}

// StreamConfig represents stream handler configuration.
type StreamConfig struct {
	EventNames    []string
	FailOnInvalid bool
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled bool
}

// New returns a viper instance with defaults set and environment variables bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MODELATTR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogPretty, false)
	v.SetDefault(KeySchemaFile, "")
	v.SetDefault(KeyStreamEventNames, []string{"INSERT", "MODIFY", "REMOVE"})
	v.SetDefault(KeyStreamFailOnInvalid, false)
	v.SetDefault(KeyMetricsEnabled, true)
	return v
}

// ReadFile merges the configuration file at path into v. Empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	level := strings.ToLower(v.GetString(KeyLogLevel))
	switch level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	return &Config{
		Log: LogConfig{
			Level:  level,
			Pretty: v.GetBool(KeyLogPretty),
		},
		Schema: SchemaConfig{
			File: v.GetString(KeySchemaFile),
		},
		Stream: StreamConfig{
			EventNames:    splitList(v.GetStringSlice(KeyStreamEventNames)),
			FailOnInvalid: v.GetBool(KeyStreamFailOnInvalid),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool(KeyMetricsEnabled),
		},
	}, nil
}

// splitList splits comma separated entries, as set through a single
// environment variable, and upper-cases them.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToUpper(part))
			}
		}
	}
	return out
}
