package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RegisterFlags adds the config flags to cmd and binds them into v so that
// explicitly set flags override file and environment values.
func RegisterFlags(cmd *cobra.Command, v *viper.Viper) error {
	defaults := DefaultConfig()
	flags := cmd.Flags()
	flags.String("theme", defaults.Theme, "Color theme (dark or light)")
	flags.Int("workers", defaults.Workers, "Top-level entries sized in parallel")
	flags.Bool("debug", defaults.Debug, "Log at debug level")
	flags.String("log-file", defaults.LogFile, "Write logs to this file")
	flags.Bool("demo", defaults.Demo, "Use canned scan results instead of the filesystem")

	bindings := map[string]string{
		"theme":    "theme",
		"workers":  "workers",
		"debug":    "debug",
		"log_file": "log-file",
		"demo":     "demo",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
