package config

import (
	"runtime"
	"strings"
)

type Config struct {
	Path           string `mapstructure:"path"`
	Theme          string `mapstructure:"theme"`
	Workers        int    `mapstructure:"workers"`
	Debug          bool   `mapstructure:"debug"`
	LogFile        string `mapstructure:"log_file"`
	ShowAccessHint bool   `mapstructure:"show_access_hint"`
	Demo           bool   `mapstructure:"demo"`
}

func DefaultConfig() Config {
	return Config{
		Path:           "",
		Theme:          "dark",
		Workers:        runtime.NumCPU(),
		Debug:          false,
		LogFile:        "",
		ShowAccessHint: true,
		Demo:           false,
	}
}

func normalize(cfg Config) Config {
	switch strings.ToLower(cfg.Theme) {
	case "light":
		cfg.Theme = "light"
	default:
		cfg.Theme = "dark"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}
