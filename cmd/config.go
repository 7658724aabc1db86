package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plancal/plancal/internal/config"
	"github.com/plancal/plancal/internal/scheduler"
	"github.com/plancal/plancal/store"
)

const (
	configName = ".plancal"
	envPrefix  = "PLANCAL"
)

// GlobalAppConfig holds the loaded application configuration.
var GlobalAppConfig config.AppConfig

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. PLANCAL_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFileFlag := viper.GetString("config"); cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	config.SetDefaults(viper.GetViper())

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err)
		os.Exit(1)
	}
	GlobalAppConfig = cfg
}

// GetConfig returns the loaded application configuration.
func GetConfig() config.AppConfig {
	return GlobalAppConfig
}

// NewLogger builds the CLI logger; verbose mode lowers the level to debug.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// GetStore initializes and returns the data store from the loaded config.
func GetStore(logger *slog.Logger) (store.DataStore, error) {
	s := store.NewFileDataStore(afero.NewOsFs(), logger)
	cfg := GetConfig()
	if err := s.Initialize(cfg.StoreConfig()); err != nil {
		return nil, fmt.Errorf("failed to initialize store in %s: %w", cfg.Data.Dir, err)
	}
	return s, nil
}

// GetScheduler wires a scheduler over the store using the configured
// retention windows.
func GetScheduler(st store.DataStore, logger *slog.Logger) *scheduler.Scheduler {
	cfg := GetConfig()
	return scheduler.New(st, scheduler.Policy{
		ProjectRetentionDays: cfg.Retention.ProjectDays,
		TodoRetentionDays:    cfg.Retention.TodoDays,
	}, logger)
}
