// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package player runs the external video player as a managed child: one
// process group per stream, torn down exactly once, gracefully then forcefully.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/ManuGH/ipcams/internal/camera"
	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/ManuGH/ipcams/internal/procgroup"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoBinary is returned when the player binary is not configured.
var ErrNoBinary = errors.New("player binary not configured")

// FFplayArgs are the low-latency full-screen flags placed before the URL.
func FFplayArgs() []string {
	return []string{
		"-fs",
		"-fflags", "nobuffer",
		"-flags", "low_delay",
		"-rtsp_transport", "tcp",
		"-probesize", "32",
		"-analyzeduration", "0",
		"-nostats",
		"-loglevel", "error",
		"-an",
	}
}

// Launcher starts player processes for cameras.
type Launcher struct {
	Binary  string
	Args    []string      // flags placed before the stream URL
	Env     []string      // extra environment, appended to os.Environ()
	Stdout  io.Writer     // defaults to os.Stdout (the player draws on the tty)
	Stderr  io.Writer     // defaults to os.Stderr
	Grace   time.Duration // SIGTERM grace before SIGKILL
	Timeout time.Duration // bound on waiting after SIGKILL
}

// NewFFplay returns a Launcher running ffplay with the standard flags.
func NewFFplay(binary string, grace time.Duration) *Launcher {
	return &Launcher{
		Binary:  binary,
		Args:    FFplayArgs(),
		Env:     []string{"TERM=linux"},
		Grace:   grace,
		Timeout: 2 * time.Second,
	}
}

// Process is one running player. Stop is safe to call any number of times
// from any goroutine; only the first call signals the group.
type Process struct {
	cmd       *exec.Cmd
	done      chan struct{}
	exitErr   error
	sessionID string
	camera    string
	grace     time.Duration
	timeout   time.Duration
	logger    zerolog.Logger

	stopOnce sync.Once
	stopErr  error
}

// Launch starts the player for cam in its own process group. stdin is
// /dev/null; stdout and stderr inherit the terminal.
func (l *Launcher) Launch(cam camera.Camera) (*Process, error) {
	if l.Binary == "" {
		metrics.IncPlayerStart("error")
		return nil, ErrNoBinary
	}

	args := append(append([]string{}, l.Args...), cam.URL)
	cmd := exec.Command(l.Binary, args...)
	cmd.Env = append(os.Environ(), l.Env...)
	cmd.Stdout = l.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	procgroup.Set(cmd)

	sessionID := uuid.NewString()
	logger := log.WithComponent("player").With().
		Str(log.FieldSessionID, sessionID).
		Str(log.FieldCamera, cam.ID).
		Logger()

	if err := cmd.Start(); err != nil {
		metrics.IncPlayerStart("error")
		logger.Error().Err(err).
			Str(log.FieldEvent, "player.start_failed").
			Str(log.FieldBinary, l.Binary).
			Msg("failed to start player")
		return nil, fmt.Errorf("start %s: %w", l.Binary, err)
	}
	metrics.IncPlayerStart("ok")

	p := &Process{
		cmd:       cmd,
		done:      make(chan struct{}),
		sessionID: sessionID,
		camera:    cam.ID,
		grace:     l.Grace,
		timeout:   l.Timeout,
		logger:    logger.With().Int(log.FieldPID, cmd.Process.Pid).Logger(),
	}
	go p.wait()

	p.logger.Info().
		Str(log.FieldEvent, "player.started").
		Str(log.FieldURL, camera.MaskURL(cam.URL)).
		Msg("player started")
	return p, nil
}

func (p *Process) wait() {
	p.exitErr = p.cmd.Wait()
	close(p.done)
}

// PID returns the process (and process group) ID.
func (p *Process) PID() int { return p.cmd.Process.Pid }

// SessionID identifies this player run in logs.
func (p *Process) SessionID() string { return p.sessionID }

// Camera returns the ID of the camera this process plays.
func (p *Process) Camera() string { return p.camera }

// Done is closed once the process has been reaped.
func (p *Process) Done() <-chan struct{} { return p.done }

// Exited reports, without blocking, whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// ExitErr returns the result of Wait; only meaningful after Done is closed.
func (p *Process) ExitErr() error {
	<-p.done
	return p.exitErr
}

// Stop terminates the whole process group. Subsequent calls return the
// first call's result.
func (p *Process) Stop() error {
	p.stopOnce.Do(func() {
		if p.Exited() {
			p.logger.Debug().Str(log.FieldEvent, "player.already_exited").Msg("player already exited")
			// Helpers may still hold the group; make sure they go too.
			p.stopErr = procgroup.Kill(p.cmd, syscall.SIGKILL)
			return
		}
		p.stopErr = procgroup.Terminate(p.cmd, p.done, p.grace, p.timeout)
		p.logger.Info().
			Str(log.FieldEvent, "player.stopped").
			AnErr("error", p.stopErr).
			Msg("player stopped")
	})
	return p.stopErr
}
