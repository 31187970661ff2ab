// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cec

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/ManuGH/ipcams/internal/procgroup"
	"github.com/rs/zerolog"
)

const (
	maxMonitorLine = 1 << 20
	monitorGrace   = 500 * time.Millisecond
	monitorTimeout = 2 * time.Second
)

// Monitor runs cec-ctl in monitor mode for as long as its context lives and
// hands decoded intents to Send. A monitor that exits on its own is started
// again after RestartDelay.
type Monitor struct {
	Binary       string
	Args         []string
	RestartDelay time.Duration
	Send         func(ctx context.Context, it intent.Intent)

	logger zerolog.Logger
}

// NewMonitor returns a monitor for the client's device.
func NewMonitor(c *Client, restartDelay time.Duration, send func(context.Context, intent.Intent)) *Monitor {
	return &Monitor{
		Binary:       c.Binary,
		Args:         c.MonitorArgs(),
		RestartDelay: restartDelay,
		Send:         send,
		logger:       log.WithComponent("monitor").With().Str(log.FieldDevice, c.Device).Logger(),
	}
}

// Run blocks until ctx is cancelled. It only returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		err := m.runOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		metrics.IncToolInvocation(OpMonitor, "exit")
		m.logger.Warn().Err(err).
			Str(log.FieldEvent, "cec.monitor_exited").
			Dur("restart_in", m.RestartDelay).
			Msg("key monitor exited, restarting")

		t := time.NewTimer(m.RestartDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) error {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("monitor pipe: %w", err)
	}
	defer r.Close()

	cmd := exec.Command(m.Binary, m.Args...)
	cmd.Stdout = w
	cmd.Stderr = w
	procgroup.Set(cmd)
	if err := cmd.Start(); err != nil {
		_ = w.Close()
		return newToolError(OpMonitor, fmt.Errorf("%w: %w", ErrToolStart, err))
	}
	_ = w.Close()

	logger := m.logger.With().Int(log.FieldPID, cmd.Process.Pid).Logger()
	logger.Info().Str(log.FieldEvent, "cec.monitor_started").Msg("key monitor started")

	done := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(done)
	}()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			_ = procgroup.Terminate(cmd, done, monitorGrace, monitorTimeout)
		case <-stop:
		}
	}()

	var ext Extractor
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxMonitorLine)
	for sc.Scan() {
		it, ok := ext.Feed(sc.Text())
		if !ok {
			continue
		}
		logger.Info().
			Str(log.FieldEvent, "cec.key").
			Str(log.FieldIntent, it.String()).
			Msg("remote key decoded")
		if m.Send != nil {
			m.Send(ctx, it)
		}
	}
	scanErr := sc.Err()
	if scanErr != nil {
		// Stop reading; make sure the process does not block on a full pipe.
		_ = procgroup.Terminate(cmd, done, monitorGrace, monitorTimeout)
	}

	<-done
	close(stop)
	wg.Wait()

	if scanErr != nil {
		return fmt.Errorf("read monitor output: %w", scanErr)
	}
	if waitErr != nil {
		return newToolError(OpMonitor, fmt.Errorf("%w: %w", ErrToolExit, waitErr))
	}
	return nil
}
