package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FluidXR/fetchdroid/internal/config"
	"github.com/FluidXR/fetchdroid/internal/history"
	"github.com/FluidXR/fetchdroid/internal/logging"
	"github.com/FluidXR/fetchdroid/internal/manager"
	"github.com/FluidXR/fetchdroid/internal/runner"
)

// app bundles what a command needs: config, logger and a wired manager.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	runner   *runner.Runner
	transfer *runner.Runner // flashes and rclone copies, under TransferTimeout
	history  *history.DB
	mgr      *manager.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	timeout := cfg.CommandTimeout
	if timeoutFlag != "" {
		if timeout, err = time.ParseDuration(timeoutFlag); err != nil {
			return nil, fmt.Errorf("--timeout: %w", err)
		}
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		runner:   runner.New(timeout, logger),
		transfer: runner.New(cfg.TransferTimeout, logger),
	}
	if cfg.History {
		if a.history, err = history.Open(config.ConfigDir()); err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	opts := manager.Options{
		ADBPath:      runner.Resolve(cfg.Resources(), "adb"),
		FastbootPath: runner.Resolve(cfg.Resources(), "fastboot"),
		Exec:         a.runner,
		FlashExec:    a.transfer,
		Logger:       logger,
		MaxParallel:  cfg.MaxParallel,
	}
	// A nil *history.DB stored in the interface would not compare nil.
	if a.history != nil {
		opts.History = a.history
	}
	a.mgr = manager.New(opts)
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}
