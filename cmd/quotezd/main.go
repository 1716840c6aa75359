// SPDX-License-Identifier: AGPL-3.0-or-later

// Command quotezd serves one Quote-of-the-Day (RFC 865) per request,
// concurrently over TCP and UDP, from an in-memory corpus assembled by
// scanning one or more local directories of quote files.
//
// Usage:
//
//	quotezd -c /etc/quotezd/quotezd.toml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/fulgidus/quotez/internal/config"
	qerrors "github.com/fulgidus/quotez/internal/errors"
	"github.com/fulgidus/quotez/internal/metrics"
	"github.com/fulgidus/quotez/internal/supervisor"
	"github.com/fulgidus/quotez/internal/ui"
	"github.com/fulgidus/quotez/pkg/selector"
	"github.com/fulgidus/quotez/pkg/server"
	"github.com/schollz/progressbar/v3"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	var (
		configPath  = flag.StringP("config", "c", "/etc/quotezd/quotezd.toml", "Path to the TOML configuration file")
		verbose     = flag.CountP("verbose", "v", "Increase log verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress the startup corpus-scan progress bar")
		noColor     = flag.Bool("no-color", false, "Disable colored log-level tags")
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `quotezd - Quote-of-the-Day daemon (RFC 865)

Usage:
  quotezd [options]

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("quotezd version %s\n", version)
		os.Exit(0)
	}

	ui.InitColors(*noColor)

	logger := slog.New(ui.NewLevelColorHandler(os.Stderr, logLevel(*verbose)))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		qerrors.FatalError(err, false)
	}
	slog.Info("config.loaded",
		"directories", cfg.Quotes.Directories,
		"mode", cfg.Quotes.Mode,
		"tcp_port", cfg.Server.TCPPort,
		"udp_port", cfg.Server.UDPPort,
		"polling_interval_seconds", cfg.Polling.IntervalSeconds,
	)

	showProgress := !*quiet && ui.IsInteractive()
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("scanning quote directories..."),
			progressbar.OptionSpinnerType(14),
		)
		go animateWhileBuilding(bar)
	}

	srv, err := server.Listen(cfg.Server.Host, cfg.Server.TCPPort, cfg.Server.UDPPort)
	if err != nil {
		qerrors.FatalError(qerrors.NewBindError(
			"Cannot bind listening sockets",
			err.Error(),
			"Check that the configured ports are free and the process has permission to bind them",
			err,
		), false)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sup := supervisor.New(
		srv,
		cfg.Quotes.Directories,
		selector.Mode(cfg.Quotes.Mode),
		time.Duration(cfg.Polling.IntervalSeconds)*time.Second,
		cfg.Polling.FsnotifyEnabled(),
	)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if sup.Corpus() == nil {
		// Supervisor.New always stores a built corpus before returning;
		// a nil snapshot here means that invariant broke, not a user
		// mistake, so it's reported through the internal taxonomy.
		qerrors.FatalError(qerrors.NewInternalError(
			"Supervisor started with no corpus snapshot",
			"Supervisor.New returned without publishing an initial corpus",
			"This is a bug in quotezd, not a configuration problem; please report it",
			nil,
		), false)
	}
	slog.Info("corpus.ready", "unique_quotes", sup.Corpus().Size())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	go srv.AcceptLoop(ctx)
	go srv.ReceiveLoop(ctx)
	go metrics.Serve(ctx, cfg.Metrics.ListenAddr)

	sup.Run(ctx)

	if err := srv.Close(); err != nil {
		slog.Warn("shutdown.close_error", "err", err)
	}
	slog.Info("shutdown.complete")
}

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity >= 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// animateWhileBuilding renders the spinner until the process decides
// the build is done; quotezd calls bar.Finish() once the supervisor
// (which performs the initial synchronous build) returns.
func animateWhileBuilding(bar *progressbar.ProgressBar) {
	for {
		if bar.IsFinished() {
			return
		}
		_ = bar.Add(1)
		time.Sleep(80 * time.Millisecond)
	}
}
