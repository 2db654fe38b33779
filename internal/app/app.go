package app

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"capacity/internal/config"
	"capacity/internal/domain"
	"capacity/internal/logging"
	"capacity/internal/services"
	"capacity/internal/state"
	"capacity/internal/ui"
)

type Options struct {
	ConfigPath  string
	ScanOnStart bool
	Warning     string
}

func Run(ctx context.Context, cfg config.Config, opts Options) error {
	logger, closer, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		opts.Warning = fmt.Sprintf("Log warning: %v", err)
	}
	defer closer.Close()

	var root string
	if opts.ScanOnStart {
		if root, err = startRoot(cfg.Path); err != nil {
			return err
		}
	}

	scanner := newScanner(cfg, logger)
	session := state.NewSession(scanner, logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(ctx)

	if opts.ScanOnStart {
		session.Scan(root, domain.HistoryReset)
	}

	logger.Info().Bool("demo", cfg.Demo).Int("workers", cfg.Workers).Msg("Capacity starting")
	model := ui.NewModel(session, cfg).WithStatus(opts.Warning)
	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	cancel()
	<-session.Done()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok {
		if err := config.SaveConfig(provider.ConfigSnapshot(), opts.ConfigPath); err != nil {
			logger.Warn().Err(err).Msg("Config save failed")
			return err
		}
	}
	return nil
}

func newScanner(cfg config.Config, logger zerolog.Logger) services.Scanner {
	if cfg.Demo {
		return services.NewMockScanner()
	}
	return services.NewFSScanner(
		services.WithWorkers(cfg.Workers),
		services.WithLogger(logger),
	)
}

func startRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
