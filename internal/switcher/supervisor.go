// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package switcher is the playback supervisor: it owns the camera list and
// the single running player, and serializes switch requests from the remote
// and the keyboard with crash restarts.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/ipcams/internal/camera"
	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/ManuGH/ipcams/internal/player"
	"github.com/ManuGH/ipcams/internal/tui"
)

// Switch sources, used as metric labels.
const (
	SourceStartup  = "startup"
	SourceRemote   = "remote"
	SourceKeyboard = "keyboard"
	SourceRestart  = "restart"
)

var (
	// ErrNoCameras is returned by New for an empty camera list.
	ErrNoCameras = errors.New("no cameras configured")

	// ErrPanic wraps a panic recovered inside Run.
	ErrPanic = errors.New("supervisor panic")
)

// Player is a running player process.
type Player interface {
	PID() int
	Exited() bool
	Stop() error
}

// Launcher starts a player for a camera.
type Launcher interface {
	Launch(cam camera.Camera) (Player, error)
}

// KeySource yields at most one key event per call, waiting up to timeout.
type KeySource interface {
	Poll(timeout time.Duration) tui.Event
}

// Display shows the status banner.
type Display interface {
	Show(s tui.Status)
}

// FFplay adapts a player.Launcher to Launcher.
type FFplay struct {
	*player.Launcher
}

// Launch implements Launcher.
func (f FFplay) Launch(cam camera.Camera) (Player, error) {
	p, err := f.Launcher.Launch(cam)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Options tunes the supervisor timings.
type Options struct {
	Title         string
	Poll          time.Duration // keyboard poll timeout, one loop iteration
	Settle        time.Duration // pause between stopping and starting a player
	RestartDelay  time.Duration // minimum wait before restarting a crashed player
	RestartBurst  int           // restarts allowed back to back
	RestartWindow time.Duration // one restart per window once the burst is spent
	StatusFile    string        // optional JSON status output
}

// Supervisor runs the control loop. All state is owned by the goroutine
// calling Run; Close may be called from elsewhere once Run has returned.
type Supervisor struct {
	cams     []camera.Camera
	opts     Options
	launcher Launcher
	display  Display
	keys     KeySource
	remote   <-chan intent.Intent
	limiter  *rate.Limiter
	logger   zerolog.Logger

	index        int
	current      Player
	needsRestart bool

	closeOnce sync.Once
	closeErr  error
}

// New returns a supervisor. keys and remote may be nil.
func New(cams []camera.Camera, opts Options, l Launcher, d Display, keys KeySource, remote <-chan intent.Intent) (*Supervisor, error) {
	if len(cams) == 0 {
		return nil, ErrNoCameras
	}
	if opts.Poll <= 0 {
		opts.Poll = 50 * time.Millisecond
	}
	if opts.RestartBurst <= 0 {
		opts.RestartBurst = 1
	}
	if opts.RestartWindow <= 0 {
		opts.RestartWindow = opts.RestartDelay
	}
	return &Supervisor{
		cams:     cams,
		opts:     opts,
		launcher: l,
		display:  d,
		keys:     keys,
		remote:   remote,
		limiter:  rate.NewLimiter(rate.Every(opts.RestartWindow), opts.RestartBurst),
		logger:   log.WithComponent("supervisor"),
	}, nil
}

// Index returns the active camera index.
func (s *Supervisor) Index() int { return s.index }

// Run starts the first camera and loops until q is pressed or ctx ends.
// The player is stopped before Run returns. A panic in the loop is returned
// as ErrPanic so the caller still unwinds and restores the terminal.
func (s *Supervisor) Run(ctx context.Context) (err error) {
	defer func() { _ = s.Close() }()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str(log.FieldEvent, "supervisor.panic").
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("supervisor loop panicked")
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	s.logger.Info().
		Str(log.FieldEvent, "supervisor.start").
		Int(log.FieldTotal, len(s.cams)).
		Msg("supervisor starting")
	s.switchTo(0, SourceStartup)

	for {
		if ctx.Err() != nil {
			s.logger.Info().Str(log.FieldEvent, "supervisor.cancelled").Msg("supervisor stopping")
			return nil
		}

		if s.unhealthy() {
			if !s.restart(ctx) {
				return nil
			}
		}

		select {
		case it, ok := <-s.remote:
			if ok {
				s.apply(it, SourceRemote)
			} else {
				s.remote = nil
			}
		default:
		}

		ev := s.pollKey(ctx)
		if ev.Kind == tui.EventQuit {
			s.logger.Info().Str(log.FieldEvent, "supervisor.quit").Msg("quit requested")
			return nil
		}
		if it, ok := ev.Intent(); ok {
			s.apply(it, SourceKeyboard)
		}
	}
}

// Close stops the current player. Safe to call more than once.
func (s *Supervisor) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stopCurrent()
	})
	return s.closeErr
}

func (s *Supervisor) pollKey(ctx context.Context) tui.Event {
	if s.keys != nil {
		return s.keys.Poll(s.opts.Poll)
	}
	sleepCtx(ctx, s.opts.Poll)
	return tui.Event{}
}

func (s *Supervisor) apply(it intent.Intent, source string) {
	target := it.Target(s.index, len(s.cams))
	s.logger.Debug().
		Str(log.FieldEvent, "supervisor.intent").
		Str(log.FieldIntent, it.String()).
		Str(log.FieldSource, source).
		Int(log.FieldIndex, target).
		Msg("switch requested")
	s.switchTo(target, source)
}

func (s *Supervisor) unhealthy() bool {
	return s.needsRestart || (s.current != nil && s.current.Exited())
}

// restart waits out the restart delay and starts the same camera again.
// It returns false if ctx ended while waiting.
func (s *Supervisor) restart(ctx context.Context) bool {
	metrics.IncPlayerRestart()
	s.show(true)

	delay := s.opts.RestartDelay
	if d := s.limiter.Reserve().Delay(); d > delay {
		delay = d
	}
	s.logger.Warn().
		Str(log.FieldEvent, "supervisor.restart").
		Str(log.FieldCamera, s.cams[s.index].ID).
		Dur("delay", delay).
		Msg("player exited, restarting")

	if !sleepCtx(ctx, delay) {
		return false
	}
	s.switchTo(s.index, SourceRestart)
	return true
}

// switchTo replaces the running player with one for camera idx.
func (s *Supervisor) switchTo(idx int, source string) {
	idx = intent.Normalize(idx, len(s.cams))
	s.index = idx
	s.show(false)

	if err := s.stopCurrent(); err != nil {
		s.logger.Warn().Err(err).Str(log.FieldEvent, "supervisor.stop_failed").Msg("stopping player failed")
	}
	time.Sleep(s.opts.Settle)

	cam := s.cams[idx]
	p, err := s.launcher.Launch(cam)
	metrics.IncSwitch(source)
	metrics.SetActiveCamera(idx)
	if err != nil {
		s.needsRestart = true
		s.logger.Error().Err(err).
			Str(log.FieldEvent, "supervisor.launch_failed").
			Str(log.FieldCamera, cam.ID).
			Msg("player failed to start")
		s.writeStatus(false)
		return
	}
	s.current = p
	s.needsRestart = false
	s.logger.Info().
		Str(log.FieldEvent, "supervisor.switched").
		Str(log.FieldCamera, cam.ID).
		Int(log.FieldIndex, idx).
		Str(log.FieldSource, source).
		Int(log.FieldPID, p.PID()).
		Msg("camera switched")
	s.writeStatus(false)
}

func (s *Supervisor) stopCurrent() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Stop()
	s.current = nil
	return err
}

func (s *Supervisor) status(restarting bool) tui.Status {
	return tui.Status{
		Title:      s.opts.Title,
		Camera:     s.cams[s.index].ID,
		Index:      s.index,
		Total:      len(s.cams),
		Restarting: restarting,
	}
}

func (s *Supervisor) show(restarting bool) {
	if s.display != nil {
		s.display.Show(s.status(restarting))
	}
	if restarting {
		s.writeStatus(true)
	}
}

func (s *Supervisor) writeStatus(restarting bool) {
	if s.opts.StatusFile == "" {
		return
	}
	snap := Snapshot{
		Title:      s.opts.Title,
		Camera:     s.cams[s.index].ID,
		Position:   s.index + 1,
		Total:      len(s.cams),
		Restarting: restarting,
		UpdatedAt:  time.Now().UTC(),
	}
	if s.current != nil {
		snap.PID = s.current.PID()
	}
	if err := WriteStatus(s.opts.StatusFile, snap); err != nil {
		s.logger.Warn().Err(err).Str(log.FieldEvent, "supervisor.status_failed").Msg("writing status file failed")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
