// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package switcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/tui"
)

type harness struct {
	sup      *Supervisor
	launcher *fakeLauncher
	display  *fakeDisplay
	keys     *fakeKeys
	remote   chan intent.Intent
	errCh    chan error
	cancel   context.CancelFunc
}

func start(t *testing.T, l *fakeLauncher, opts Options, ids ...string) *harness {
	t.Helper()
	h := &harness{
		launcher: l,
		display:  &fakeDisplay{},
		keys:     newFakeKeys(),
		remote:   make(chan intent.Intent, 32),
		errCh:    make(chan error, 1),
	}
	sup, err := New(testCameras(ids...), opts, l, h.display, h.keys, h.remote)
	require.NoError(t, err)
	h.sup = sup

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	t.Cleanup(cancel)
	go func() { h.errCh <- sup.Run(ctx) }()
	return h
}

func (h *harness) quit(t *testing.T) {
	t.Helper()
	h.keys.events <- tui.Event{Kind: tui.EventQuit}
	select {
	case err := <-h.errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not quit")
	}
}

func TestNewRejectsEmptyCameraList(t *testing.T) {
	_, err := New(nil, fastOptions(), &fakeLauncher{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoCameras)
}

func TestStartsFirstCameraAndQuits(t *testing.T) {
	l := &fakeLauncher{}
	h := start(t, l, fastOptions(), "front", "garden")

	require.Eventually(t, func() bool { return len(l.Players()) == 1 }, 2*time.Second, time.Millisecond)
	h.quit(t)

	players := l.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "front", players[0].cam)
	assert.EqualValues(t, 1, players[0].stopped.Load(), "player stopped exactly once on quit")

	shown := h.display.Shown()
	require.NotEmpty(t, shown)
	assert.Equal(t, tui.Status{Title: "IP Cams", Camera: "front", Index: 0, Total: 2}, shown[0])
}

func TestRapidNextIntentsConverge(t *testing.T) {
	l := &fakeLauncher{}
	h := start(t, l, fastOptions(), "a", "b", "c", "d")

	const n = 10
	for i := 0; i < n; i++ {
		h.remote <- intent.Next()
	}
	require.Eventually(t, func() bool { return len(l.Players()) == n+1 }, 5*time.Second, time.Millisecond)
	h.quit(t)

	assert.Equal(t, n%4, h.sup.Index())
	assert.Empty(t, h.remote, "no queued switch left unprocessed")

	players := l.Players()
	require.Len(t, players, n+1)
	assert.Equal(t, "c", players[n].cam)
	for i, p := range players {
		assert.EqualValues(t, 1, p.stopped.Load(), "player %d", i)
	}
	assert.Zero(t, l.Overlaps(), "a new player started while another was live")
}

func TestKeyboardIntents(t *testing.T) {
	l := &fakeLauncher{}
	h := start(t, l, fastOptions(), "a", "b", "c", "d")

	h.keys.events <- tui.Event{Kind: tui.EventDirect, Index: 2}
	h.keys.events <- tui.Event{Kind: tui.EventPrev}
	h.keys.events <- tui.Event{Kind: tui.EventNone}
	h.keys.events <- tui.Event{Kind: tui.EventPrev}
	h.keys.events <- tui.Event{Kind: tui.EventPrev}
	require.Eventually(t, func() bool { return len(l.Players()) == 5 }, 2*time.Second, time.Millisecond)
	h.quit(t)

	var cams []string
	for _, p := range l.Players() {
		cams = append(cams, p.cam)
	}
	assert.Equal(t, []string{"a", "c", "b", "a", "d"}, cams)
	assert.Equal(t, 3, h.sup.Index())
}

func TestCrashRestartsSameCamera(t *testing.T) {
	l := &fakeLauncher{}
	h := start(t, l, fastOptions(), "front", "garden")

	h.remote <- intent.Next()
	require.Eventually(t, func() bool { return len(l.Players()) == 2 }, 2*time.Second, time.Millisecond)

	l.Players()[1].exited.Store(true)
	require.Eventually(t, func() bool { return len(l.Players()) == 3 }, 2*time.Second, time.Millisecond)
	h.quit(t)

	players := l.Players()
	assert.Equal(t, "garden", players[2].cam)

	var sawRestart bool
	for _, s := range h.display.Shown() {
		if s.Restarting {
			sawRestart = true
			assert.Equal(t, "garden", s.Camera)
			assert.Equal(t, 1, s.Index)
		}
	}
	assert.True(t, sawRestart, "banner showed the restart marker")
}

func TestLaunchFailureIsRetried(t *testing.T) {
	l := &fakeLauncher{failures: 2}
	h := start(t, l, fastOptions(), "front")

	require.Eventually(t, func() bool { return len(l.Players()) == 1 }, 2*time.Second, time.Millisecond)
	h.quit(t)
	assert.Len(t, l.Launches(), 3)
}

func TestCrashLoopIsRateLimited(t *testing.T) {
	l := &fakeLauncher{crash: true}
	opts := fastOptions()
	opts.RestartDelay = time.Millisecond
	opts.RestartBurst = 2
	opts.RestartWindow = 300 * time.Millisecond
	h := start(t, l, opts, "front")

	require.Eventually(t, func() bool { return len(l.Launches()) >= 4 }, 5*time.Second, time.Millisecond)
	h.cancel()
	require.NoError(t, <-h.errCh)

	at := l.Launches()
	// Startup plus the burst go quickly; the next restart waits for the window.
	assert.Less(t, at[2].Sub(at[0]), 200*time.Millisecond)
	assert.GreaterOrEqual(t, at[3].Sub(at[2]), 200*time.Millisecond)
}

func TestContextCancelStopsPlayer(t *testing.T) {
	l := &fakeLauncher{}
	h := start(t, l, fastOptions(), "front")
	require.Eventually(t, func() bool { return len(l.Players()) == 1 }, 2*time.Second, time.Millisecond)

	h.cancel()
	require.NoError(t, <-h.errCh)
	assert.EqualValues(t, 1, l.Players()[0].stopped.Load())
	assert.NoError(t, h.sup.Close())
	assert.EqualValues(t, 1, l.Players()[0].stopped.Load(), "Close is idempotent")
}

func TestWithoutKeySource(t *testing.T) {
	l := &fakeLauncher{}
	remote := make(chan intent.Intent, 1)
	sup, err := New(testCameras("a", "b"), fastOptions(), l, nil, nil, remote)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- sup.Run(ctx) }()

	remote <- intent.Prev()
	require.Eventually(t, func() bool { return len(l.Players()) == 2 }, 2*time.Second, time.Millisecond)
	close(remote)
	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, sup.Index())
}

func TestStatusFileTracksActiveCamera(t *testing.T) {
	l := &fakeLauncher{}
	opts := fastOptions()
	opts.StatusFile = filepath.Join(t.TempDir(), "run", "status.json")
	h := start(t, l, opts, "front", "garden", "cellar")

	h.keys.events <- tui.Event{Kind: tui.EventDirect, Index: 2}
	require.Eventually(t, func() bool { return len(l.Players()) == 2 }, 2*time.Second, time.Millisecond)
	h.quit(t)

	snap, err := ReadStatus(opts.StatusFile)
	require.NoError(t, err)
	assert.Equal(t, "cellar", snap.Camera)
	assert.Equal(t, 3, snap.Position)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, "IP Cams", snap.Title)
	assert.False(t, snap.Restarting)
	assert.Equal(t, 1001, snap.PID)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestRunReturnsPanicAsError(t *testing.T) {
	l := &fakeLauncher{panicAt: 2}
	h := start(t, l, fastOptions(), "front", "garden")

	require.Eventually(t, func() bool { return len(l.Players()) == 1 }, 2*time.Second, time.Millisecond)
	h.remote <- intent.Next()

	select {
	case err := <-h.errCh:
		require.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "launcher exploded")
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not return after panic")
	}

	players := l.Players()
	require.Len(t, players, 1)
	assert.EqualValues(t, 1, players[0].stopped.Load(), "running player stopped before the panic surfaced")
	assert.NoError(t, h.sup.Close())
}
