package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshsymonds/mailview/internal/config"
	"github.com/joshsymonds/mailview/internal/rate"
	"github.com/joshsymonds/mailview/internal/runtime"
	"github.com/joshsymonds/mailview/internal/shell"
	"github.com/joshsymonds/mailview/internal/ui"
)

func main() {
	flags := parseFlags()
	if err := run(flags); err != nil {
		runtime.DefaultLogger().Error("mailview failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() *config.Flags {
	flags := config.BindFlags(flag.CommandLine)
	flag.Parse()
	return flags
}

func run(flags *config.Flags) error {
	cfg, err := flags.Resolve()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// the terminal belongs to the UI; logs go to a file or nowhere
	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	limiter, stop := rate.New(cfg.RPS)
	defer stop()

	req, err := cfg.Request()
	if err != nil {
		return err
	}

	pipeline := shell.Pipeline{
		Auth: shell.RuntimeAuthenticator{Authenticator: runtime.Authenticator{
			Subject:  cfg.Subject,
			Endpoint: cfg.APIEndpoint,
			Logger:   logger,
		}},
		Limiter: limiter,
		Logger:  logger,
	}

	startDir, _ := os.Getwd()
	model := ui.New(ui.Options{
		Runner:         pipeline,
		Subject:        cfg.Subject,
		Folder:         req.Folder,
		Limit:          req.Limit,
		Bounds:         cfg.Bounds(),
		CredentialPath: cfg.Credentials,
		StartDir:       startDir,
		Context:        ctx,
		Logger:         logger,
	})

	logger.Info("starting viewer", "subject", cfg.Subject, "folder", string(req.Folder), "limit", req.Limit)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func openLogger(lc config.LogConfig) (*slog.Logger, func(), error) {
	if lc.File == "" {
		return runtime.NewLogger(io.Discard, lc.Level, lc.Format), func() {}, nil
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return runtime.NewLogger(f, lc.Level, lc.Format), func() { _ = f.Close() }, nil
}
