// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package switcher

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/ipcams/internal/camera"
	"github.com/ManuGH/ipcams/internal/tui"
)

type fakePlayer struct {
	pid     int
	cam     string
	exited  atomic.Bool
	stopped atomic.Int32
}

func (p *fakePlayer) PID() int     { return p.pid }
func (p *fakePlayer) Exited() bool { return p.exited.Load() }
func (p *fakePlayer) Stop() error {
	p.stopped.Add(1)
	p.exited.Store(true)
	return nil
}

type fakeLauncher struct {
	mu         sync.Mutex
	players    []*fakePlayer
	launchedAt []time.Time
	failures   int  // fail this many launches first
	crash      bool // players exit right away
	overlaps   int  // launches seen while another player was still live
	panicAt    int  // panic on this launch (1-based), 0 never
}

func (l *fakeLauncher) Launch(cam camera.Camera) (Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launchedAt = append(l.launchedAt, time.Now())
	if l.panicAt == len(l.launchedAt) {
		panic("launcher exploded")
	}
	if l.failures > 0 {
		l.failures--
		return nil, errors.New("exec: ffplay: not found")
	}
	for _, p := range l.players {
		if p.stopped.Load() == 0 && !p.exited.Load() {
			l.overlaps++
		}
	}
	p := &fakePlayer{pid: 1000 + len(l.players), cam: cam.ID}
	if l.crash {
		p.exited.Store(true)
	}
	l.players = append(l.players, p)
	return p, nil
}

func (l *fakeLauncher) Players() []*fakePlayer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*fakePlayer(nil), l.players...)
}

func (l *fakeLauncher) Launches() []time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]time.Time(nil), l.launchedAt...)
}

func (l *fakeLauncher) Overlaps() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overlaps
}

type fakeDisplay struct {
	mu    sync.Mutex
	shown []tui.Status
}

func (d *fakeDisplay) Show(s tui.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, s)
}

func (d *fakeDisplay) Shown() []tui.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]tui.Status(nil), d.shown...)
}

// fakeKeys delivers queued events, one per Poll.
type fakeKeys struct {
	events chan tui.Event
}

func newFakeKeys() *fakeKeys { return &fakeKeys{events: make(chan tui.Event, 16)} }

func (k *fakeKeys) Poll(timeout time.Duration) tui.Event {
	select {
	case ev := <-k.events:
		return ev
	case <-time.After(timeout):
		return tui.Event{}
	}
}

func testCameras(ids ...string) []camera.Camera {
	cams := make([]camera.Camera, len(ids))
	for i, id := range ids {
		cams[i] = camera.Camera{ID: id, URL: "rtsp://" + id + ".lan:554/stream"}
	}
	return cams
}

func fastOptions() Options {
	return Options{
		Title:         "IP Cams",
		Poll:          5 * time.Millisecond,
		Settle:        time.Millisecond,
		RestartDelay:  5 * time.Millisecond,
		RestartBurst:  100,
		RestartWindow: time.Millisecond,
	}
}
