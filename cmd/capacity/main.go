package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"capacity/internal/app"
	"capacity/internal/config"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, err := newRootCmd()
	if err == nil {
		err = rootCmd.ExecuteContext(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	v := config.NewViper()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "capacity [path]",
		Short: "Capacity - see which folders use the most disk space",
		Long: `Capacity lists the immediate children of a folder sorted by the space
they occupy on disk, and compares their total against the volume's usage.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v, configPath)
			opts := app.Options{ConfigPath: configPath}
			if err != nil {
				opts.Warning = "Config warning: using defaults"
			}
			if len(args) == 1 {
				cfg.Path = args[0]
				opts.ScanOnStart = true
			}
			return app.Run(cmd.Context(), cfg, opts)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default is the user config dir)")
	if err := config.RegisterFlags(rootCmd, v); err != nil {
		return nil, err
	}
	return rootCmd, nil
}
