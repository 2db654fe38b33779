package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName  = "capacity"
	configFileName = "config.json"
	envPrefix      = "CAPACITY"
)

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// NewViper returns a viper instance carrying the defaults and CAPACITY_*
// environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("path", defaults.Path)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("show_access_hint", defaults.ShowAccessHint)
	v.SetDefault("demo", defaults.Demo)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig merges the config file at path (the default location when
// empty) into v. A missing file is not an error. On any error the returned
// config still holds usable values.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		defaultPath, err := ConfigPath()
		if err != nil {
			cfg, _ := decode(v)
			return cfg, fmt.Errorf("locate config: %w", err)
		}
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cfg, _ := decode(v)
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return decode(v)
}

// SaveConfig persists the UI preferences. Run-time knobs such as workers,
// debug and demo stay with the flags that set them.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		defaultPath, err := ConfigPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	out := viper.New()
	out.Set("path", cfg.Path)
	out.Set("theme", cfg.Theme)
	out.Set("show_access_hint", cfg.ShowAccessHint)
	out.SetConfigType("json")
	if err := out.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func decode(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}
	return normalize(cfg), nil
}
