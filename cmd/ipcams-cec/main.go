// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command ipcams-cec is the CEC signaling bridge: it announces this box as
// a playback source, turns remote key presses into switch messages for
// cam-switcher, and serves a local control socket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ipcams/internal/bridge"
	"github.com/ManuGH/ipcams/internal/config"
	"github.com/ManuGH/ipcams/internal/health"
	xlog "github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/version"
)

const service = "ipcams-cec"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "ctl" {
		os.Exit(runCtl(os.Args[2:], os.Stdout, os.Stderr))
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
	// Configure logger with safe defaults until config is loaded
	xlog.Configure(xlog.Config{
		Level:   "info",
		Service: service,
		Version: version.Version,
	})
	logger := xlog.WithComponent("daemon")

	loaded, err := config.LoadEnvFiles(os.Getenv("ENV_FILE"))
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "config.env_file_failed").Msg("failed to load env file")
		return 1
	}

	cfg, err := config.LoadBridge()
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "config.load_failed").Msg("failed to load configuration")
		return 1
	}

	out, closeLog, err := xlog.OpenFile(cfg.LogFile)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "log.open_failed").Str("path", cfg.LogFile).Msg("failed to open log file")
		return 1
	}
	defer func() { _ = closeLog() }()

	// Re-configure logger with loaded configuration
	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Output:  out,
		Service: service,
		Version: version.Version,
	})
	logger = xlog.WithComponent("daemon")
	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Strs("env_files", loaded).
		Str(xlog.FieldDevice, cfg.Device).
		Str(xlog.FieldOSDName, cfg.OSDName).
		Str(xlog.FieldSocket, cfg.ControlSocket).
		Dur("keepalive", cfg.Keepalive).
		Msg("starting cec bridge")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bridge.New(cfg)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "bridge.setup_failed").Msg("failed to set up bridge")
		return 1
	}

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewBinaryChecker("cec_ctl", cfg.CecCtl))
	hm.RegisterChecker(health.NewPathChecker("cec_device", cfg.Device))
	hm.RegisterChecker(health.NewPathChecker("control_socket", cfg.ControlSocket))
	hm.LogStartupChecks(ctx, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// A quit command ends the bridge; the ops server follows.
		defer cancel()
		return b.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return health.Serve(gctx, cfg.MetricsAddr, health.NewRouter(hm))
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "daemon.failed").Msg("cec bridge failed")
		return 1
	}
	logger.Info().Str(xlog.FieldEvent, "daemon.stopped").Msg("cec bridge stopped")
	return 0
}
