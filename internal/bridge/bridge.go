// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ipcams/internal/cec"
	"github.com/ManuGH/ipcams/internal/config"
	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/ipc"
	"github.com/ManuGH/ipcams/internal/log"
)

// Service is a long running task bound to a context.
type Service interface {
	Run(ctx context.Context) error
}

// Bridge runs keepalive announcements, the key monitor and the control
// endpoint until quit is received or the context ends.
type Bridge struct {
	cfg     config.BridgeConfig
	state   *State
	monitor Service
	control *ipc.LineServer
	logger  zerolog.Logger
}

// New builds a bridge driving the real cec-ctl. The control socket is bound
// here so setup faults surface before Run.
func New(cfg config.BridgeConfig) (*Bridge, error) {
	client := cec.NewClient(cfg.CecCtl, cfg.Device, cfg.CommandTimeout)
	logger := log.WithComponent("bridge")
	send := func(_ context.Context, it intent.Intent) {
		if err := ipc.SendIntent(cfg.SwitchSocket, it); err != nil {
			logger.Debug().Err(err).
				Str(log.FieldEvent, "bridge.switch_unreachable").
				Str(log.FieldIntent, it.String()).
				Msg("switch channel unreachable, dropping intent")
		}
	}
	return NewWith(cfg, cec.NewAnnouncer(client), cec.NewMonitor(client, cfg.MonitorRestart, send))
}

// NewWith builds a bridge around the given announcer and monitor.
func NewWith(cfg config.BridgeConfig, a Announcer, monitor Service) (*Bridge, error) {
	st := NewState(cfg.OSDName, cfg.ForceActiveOnce, a)
	ln, err := ipc.Listen(cfg.ControlSocket)
	if err != nil {
		return nil, fmt.Errorf("control socket: %w", err)
	}
	return &Bridge{
		cfg:     cfg,
		state:   st,
		monitor: monitor,
		control: ipc.NewLineServer("control", ln, ControlHandler(st)),
		logger:  log.WithComponent("bridge"),
	}, nil
}

// State exposes the bridge state.
func (b *Bridge) State() *State { return b.state }

// Run blocks until a quit command or ctx cancellation. The control socket
// is removed on return.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	ready := make(chan struct{})

	g.Go(func() error {
		// quit makes Serve return nil; take the other tasks down with it.
		defer cancel()
		return b.control.Serve(ctx)
	})

	g.Go(func() error {
		defer close(ready)
		b.waitForDevice(ctx)
		return nil
	})

	g.Go(func() error {
		select {
		case <-ready:
		case <-ctx.Done():
			return nil
		}
		return b.keepalive(ctx)
	})

	g.Go(func() error {
		select {
		case <-ready:
		case <-ctx.Done():
			return nil
		}
		return b.monitor.Run(ctx)
	})

	err := g.Wait()
	b.logger.Info().Str(log.FieldEvent, "bridge.stopped").Msg("bridge stopped")
	return err
}

func (b *Bridge) waitForDevice(ctx context.Context) {
	if b.cfg.DeviceWait <= 0 {
		return
	}
	err := WaitForDevice(ctx, b.cfg.Device, b.cfg.DeviceWait)
	switch {
	case err == nil:
		b.logger.Info().Str(log.FieldEvent, "bridge.device_ready").Str(log.FieldDevice, b.cfg.Device).Msg("cec device present")
	case errors.Is(err, context.Canceled):
	default:
		// Announcements no-op until the device shows up; keep going.
		b.logger.Warn().Err(err).Str(log.FieldEvent, "bridge.device_missing").Str(log.FieldDevice, b.cfg.Device).Msg("cec device not present")
	}
}

func (b *Bridge) keepalive(ctx context.Context) error {
	b.announce(ctx, TriggerStartup)
	ticker := time.NewTicker(b.cfg.Keepalive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.announce(ctx, TriggerKeepalive)
		}
	}
}

func (b *Bridge) announce(ctx context.Context, trigger string) {
	if err := b.state.Announce(ctx, trigger); err != nil && ctx.Err() == nil {
		b.logger.Warn().Err(err).
			Str(log.FieldEvent, "bridge.announce_partial").
			Str("trigger", trigger).
			Msg("announce had failures")
	}
}
