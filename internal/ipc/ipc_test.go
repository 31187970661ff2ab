// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/ipcams/internal/intent"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Socket paths must stay short (sun_path is about 108 bytes), so tests
// use a fresh directory under os.TempDir rather than t.TempDir.
func sockPath(t *testing.T, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ipc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, name)
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := sockPath(t, "stale.sock")

	ln1, err := Listen(path)
	require.NoError(t, err)
	ln1.SetUnlinkOnClose(false)
	require.NoError(t, ln1.Close())
	_, err = os.Lstat(path)
	require.NoError(t, err, "stale socket file should remain")

	ln2, err := Listen(path)
	require.NoError(t, err)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, SocketMode, fi.Mode().Perm())

	require.NoError(t, ln2.Close())
	_, err = os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "socket file removed on close")
}

func TestListenRefusesRegularFile(t *testing.T) {
	path := sockPath(t, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err := Listen(path)
	assert.ErrorIs(t, err, ErrNotSocket)
}

func TestSendToMissingSocket(t *testing.T) {
	assert.Error(t, Send(sockPath(t, "absent.sock"), "next", 50*time.Millisecond))
	assert.Error(t, SendIntent(sockPath(t, "absent.sock"), intent.Next()))
	assert.NoError(t, SendIntent(sockPath(t, "absent.sock"), intent.Direct(1)))
}

func startLineServer(t *testing.T, h Handler) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	path := sockPath(t, "ctl.sock")
	ln, err := Listen(path)
	require.NoError(t, err)
	srv := NewLineServer("control", ln, h)
	srv.ReadTimeout = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()
	return path, cancel, errCh
}

func TestLineServerRepliesAndStops(t *testing.T) {
	var lines []string
	path, cancel, errCh := startLineServer(t, func(_ context.Context, line string) (string, bool) {
		lines = append(lines, line)
		switch line {
		case "quit":
			return "ok\n", true
		case "silent":
			return "", false
		}
		return "echo " + line + "\n", false
	})
	defer cancel()

	reply, err := Request(path, "hello world", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "echo hello world", reply)

	reply, err = Request(path, "silent", time.Second)
	require.NoError(t, err)
	assert.Empty(t, reply)

	reply, err = Request(path, "quit", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after quit")
	}
	assert.Equal(t, []string{"hello world", "silent", "quit"}, lines)

	_, err = os.Lstat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLineServerEmptyLineNoReply(t *testing.T) {
	called := false
	path, cancel, errCh := startLineServer(t, func(context.Context, string) (string, bool) {
		called = true
		return "ok\n", false
	})

	reply, err := Request(path, "   ", time.Second)
	require.NoError(t, err)
	assert.Empty(t, reply)

	cancel()
	require.NoError(t, <-errCh)
	assert.False(t, called)
}

func TestLineServerSlowClientTimesOut(t *testing.T) {
	path, cancel, errCh := startLineServer(t, func(_ context.Context, line string) (string, bool) {
		return "ok\n", false
	})
	defer func() {
		cancel()
		require.NoError(t, <-errCh)
	}()

	// A client that never sends must not wedge the server.
	idle, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer idle.Close()

	reply, err := Request(path, "announce", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestSwitchChannelQueuesValidMessages(t *testing.T) {
	path := sockPath(t, "switch.sock")
	ch, err := ListenSwitch(path, 4)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ch.Serve(ctx) }()

	for _, msg := range []string{"next", "bogus", " prev \n", "", "nextnext"} {
		require.NoError(t, Send(path, msg, time.Second))
	}
	require.NoError(t, SendIntent(path, intent.Next()))

	var got []intent.Intent
	for len(got) < 3 {
		select {
		case it := <-ch.Intents():
			got = append(got, it)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []intent.Intent{intent.Next(), intent.Prev(), intent.Next()}, got)

	select {
	case it := <-ch.Intents():
		t.Fatalf("unexpected extra intent %v", it)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-errCh)
	_, err = os.Lstat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSwitchChannelFullQueueBlocksWithoutLoss(t *testing.T) {
	path := sockPath(t, "switch.sock")
	ch, err := ListenSwitch(path, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ch.Serve(ctx) }()

	const n = 6
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for i := 0; i < n; i++ {
			// Connections queue in the listen backlog while the server waits
			// for queue space.
			_ = Send(path, "next", 2*time.Second)
		}
	}()

	got := 0
	deadline := time.After(5 * time.Second)
	for got < n {
		select {
		case <-ch.Intents():
			got++
		case <-deadline:
			t.Fatalf("received %d of %d intents", got, n)
		}
	}
	<-sent
	cancel()
	require.NoError(t, <-errCh)
	assert.NoError(t, ch.Close())
}
