package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joshsymonds/mailview/internal/config"
	"github.com/joshsymonds/mailview/internal/credential"
	"github.com/joshsymonds/mailview/internal/fetch"
	"github.com/joshsymonds/mailview/internal/rate"
	"github.com/joshsymonds/mailview/internal/render"
	"github.com/joshsymonds/mailview/internal/runtime"
	"github.com/joshsymonds/mailview/internal/shell"
)

type dumpConfig struct {
	flags  *config.Flags
	format string
	out    string
	width  int
}

func main() {
	cfg := parseDumpFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, shell.Describe(err))
		os.Exit(1)
	}
}

func parseDumpFlags() dumpConfig {
	flags := config.BindFlags(flag.CommandLine)
	format := flag.String("format", "cards", "output format: cards, table, json, html or html-table")
	out := flag.String("out", "", "write output to this file instead of stdout")
	width := flag.Int("width", 100, "terminal width for cards and table output")
	flag.Parse()

	return dumpConfig{
		flags:  flags,
		format: strings.ToLower(*format),
		out:    *out,
		width:  *width,
	}
}

func run(dc dumpConfig) error {
	cfg, err := dc.flags.Resolve()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Credentials == "" {
		return errors.New("no key file given (set -credentials or MAILVIEW_CREDENTIALS)")
	}
	switch dc.format {
	case "cards", "table", "json", "html", "html-table":
	default:
		return fmt.Errorf("unknown format %q", dc.format)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := runtime.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	raw, err := credential.ReadFile(cfg.Credentials)
	if err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	limiter, stop := rate.New(cfg.RPS)
	defer stop()

	pipeline := shell.Pipeline{
		Auth: shell.RuntimeAuthenticator{Authenticator: runtime.Authenticator{
			Subject:  cfg.Subject,
			Endpoint: cfg.APIEndpoint,
			Logger:   logger,
		}},
		Limiter: limiter,
		Logger:  logger,
	}
	list, err := pipeline.Run(ctx, raw, req)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if dc.out != "" {
		f, createErr := os.Create(dc.out)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := write(bw, dc, req.Folder, list); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("dump complete", "folder", string(req.Folder), "count", len(list), "format", dc.format)
	return nil
}

func write(w io.Writer, dc dumpConfig, folder fetch.Folder, list []fetch.Summary) error {
	switch dc.format {
	case "json":
		return render.WriteJSON(w, list)
	case "html", "html-table":
		return render.WriteHTML(w, list, render.Page{
			Title:       fmt.Sprintf("%s (%d)", folder, len(list)),
			Folder:      folder,
			ShowTable:   dc.format == "html-table",
			GeneratedAt: time.Now(),
		})
	case "table":
		_, err := fmt.Fprintln(w, render.Table(list, dc.width))
		return err
	default:
		_, err := fmt.Fprintln(w, render.Cards(list, dc.width))
		return err
	}
}
