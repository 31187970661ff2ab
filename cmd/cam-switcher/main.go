// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command cam-switcher shows one camera stream full screen and switches
// between cameras on remote (switch socket) or keyboard input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ipcams/internal/camera"
	"github.com/ManuGH/ipcams/internal/config"
	"github.com/ManuGH/ipcams/internal/health"
	"github.com/ManuGH/ipcams/internal/ipc"
	xlog "github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/player"
	"github.com/ManuGH/ipcams/internal/switcher"
	"github.com/ManuGH/ipcams/internal/tui"
	"github.com/ManuGH/ipcams/internal/version"
)

const service = "cam-switcher"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "send":
			os.Exit(runSend(os.Args[2:], os.Stderr))
		case "status":
			os.Exit(runStatus(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	os.Exit(run())
}

func run() int {
	xlog.Configure(xlog.Config{
		Level:   "info",
		Service: service,
		Version: version.Version,
	})
	logger := xlog.WithComponent("daemon")

	if _, err := config.LoadEnvFiles(os.Getenv("ENV_FILE")); err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "config.env_file_failed").Msg("failed to load env file")
		return 1
	}

	// Everything that can fail on configuration fails here, before any
	// socket exists or the terminal is touched.
	cfg, err := config.LoadSwitcher()
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			fmt.Fprintln(os.Stderr, "RTSP_USER and RTSP_PASS must be set (environment or ENV_FILE)")
		}
		logger.Error().Err(err).Str(xlog.FieldEvent, "config.load_failed").Msg("failed to load configuration")
		return 1
	}
	cams, err := camera.Build(cfg.Cameras, cfg.RTSP)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "config.cameras_invalid").Msg("invalid camera list")
		return 1
	}

	out, closeLog, err := xlog.OpenFile(cfg.LogFile)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "log.open_failed").Str("path", cfg.LogFile).Msg("failed to open log file")
		return 1
	}
	defer func() { _ = closeLog() }()

	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Output:  out,
		Service: service,
		Version: version.Version,
	})
	logger = xlog.WithComponent("daemon")
	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Strs("cameras", cfg.Cameras).
		Str(xlog.FieldSocket, cfg.SwitchSocket).
		Str(xlog.FieldBinary, cfg.Player).
		Msg("starting camera switcher")

	ch, err := ipc.ListenSwitch(cfg.SwitchSocket, ipc.DefaultQueueSize)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "ipc.listen_failed").Msg("failed to open switch socket")
		return 1
	}
	defer func() { _ = ch.Close() }()

	term, err := tui.MakeRaw(os.Stdin)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "tui.raw_failed").Msg("failed to set up terminal")
		return 1
	}
	defer func() { _ = term.Restore() }()

	sup, err := switcher.New(cams, switcher.Options{
		Title:         cfg.Title,
		Poll:          cfg.PollInterval,
		Settle:        cfg.Settle,
		RestartDelay:  cfg.RestartDelay,
		RestartBurst:  cfg.RestartBurst,
		RestartWindow: cfg.RestartWindow,
		StatusFile:    cfg.StatusFile,
	},
		switcher.FFplay{Launcher: player.NewFFplay(cfg.Player, cfg.KillGrace)},
		tui.NewBanner(os.Stdout),
		tui.NewKeyReader(os.Stdin, tui.NewDecoder(len(cams))),
		ch.Intents(),
	)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "supervisor.setup_failed").Msg("failed to set up supervisor")
		return 1
	}
	// Runs before term.Restore on every return from run.
	defer func() { _ = sup.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewBinaryChecker("ffplay", cfg.Player))
	hm.RegisterChecker(health.NewPathChecker("switch_socket", cfg.SwitchSocket))
	hm.LogStartupChecks(ctx, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return ch.Serve(gctx) })
	g.Go(func() error {
		// q ends the loop; take the socket and ops server down with it.
		// Run reports a loop panic as ErrPanic, so run still unwinds and
		// restores the terminal.
		defer cancel()
		return sup.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return health.Serve(gctx, cfg.MetricsAddr, health.NewRouter(hm))
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "daemon.failed").Msg("camera switcher failed")
		return 1
	}
	logger.Info().Str(xlog.FieldEvent, "daemon.stopped").Msg("camera switcher stopped")
	return 0
}
