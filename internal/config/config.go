// Package config centralizes defaults and the typed view of the viper
// configuration tree. All default values live here so there is a single
// source of truth.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// DefaultDataDir is the collection directory, relative to the working
	// directory unless overridden.
	DefaultDataDir = ".plancal"
	// DefaultDataFormat is the collection file format.
	DefaultDataFormat = "json"
	// DefaultProjectRetentionDays is how long finished projects stay in the
	// active collection.
	DefaultProjectRetentionDays = 3
	// DefaultTodoRetentionDays is how long finished todos survive.
	DefaultTodoRetentionDays = 14
	// DefaultPort is the HTTP API port.
	DefaultPort = 3035
	// DefaultIntervalMinutes is the periodic maintenance cadence in serve
	// mode. The original deployment ran hourly.
	DefaultIntervalMinutes = 60
)

// AppConfig is the complete application configuration.
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Retention RetentionConfig `mapstructure:"retention" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
}

// DataConfig holds collection storage settings.
type DataConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// RetentionConfig holds the pruning windows in days.
type RetentionConfig struct {
	ProjectDays int `mapstructure:"projectDays" validate:"min=1"`
	TodoDays    int `mapstructure:"todoDays" validate:"min=1"`
}

// ServerConfig holds the serve-mode settings.
type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"min=1,max=65535"`
	IntervalMinutes int      `mapstructure:"intervalMinutes" validate:"min=1"`
	AllowedOrigins  []string `mapstructure:"allowedOrigins"`
}

var validate = validator.New()

// SetDefaults registers every default on the viper instance. Call before
// unmarshalling.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", DefaultDataDir)
	v.SetDefault("data.format", DefaultDataFormat)
	v.SetDefault("retention.projectDays", DefaultProjectRetentionDays)
	v.SetDefault("retention.todoDays", DefaultTodoRetentionDays)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.intervalMinutes", DefaultIntervalMinutes)
}

// Load unmarshals and validates the configuration from the viper instance.
func Load(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// StoreConfig renders the store initialization map for the data settings.
func (c AppConfig) StoreConfig() map[string]string {
	return map[string]string{
		"dataDir":        c.Data.Dir,
		"dataFileFormat": c.Data.Format,
	}
}
