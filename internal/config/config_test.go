package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.Dir != DefaultDataDir || cfg.Data.Format != DefaultDataFormat {
		t.Errorf("data defaults wrong: %+v", cfg.Data)
	}
	if cfg.Retention.ProjectDays != 3 || cfg.Retention.TodoDays != 14 {
		t.Errorf("retention defaults wrong: %+v", cfg.Retention)
	}
	if cfg.Server.Port != 3035 || cfg.Server.IntervalMinutes != 60 {
		t.Errorf("server defaults wrong: %+v", cfg.Server)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("data.format", "xml")

	if _, err := Load(v); err == nil {
		t.Fatal("Load accepted an unsupported data format")
	}
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("retention.todoDays", 30)
	v.Set("server.allowedOrigins", []string{"http://localhost:5500"})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retention.TodoDays != 30 {
		t.Errorf("override lost: %+v", cfg.Retention)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("origins override lost: %+v", cfg.Server)
	}
}
