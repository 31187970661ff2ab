// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ipc

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	// MaxSwitchMessage bounds a switch channel payload.
	MaxSwitchMessage = 64
	// DefaultQueueSize is the switch intent queue capacity.
	DefaultQueueSize = 32
	// SendTimeout is used by switch channel clients.
	SendTimeout = 200 * time.Millisecond

	switchReadTimeout = 500 * time.Millisecond
	endpointSwitch    = "switch"
)

// SwitchChannel receives next/prev messages and queues them for the
// supervisor loop.
type SwitchChannel struct {
	ln      net.Listener
	intents chan intent.Intent
	logger  zerolog.Logger
}

// ListenSwitch opens the switch channel socket at path.
func ListenSwitch(path string, queueSize int) (*SwitchChannel, error) {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ln, err := Listen(path)
	if err != nil {
		return nil, err
	}
	return &SwitchChannel{
		ln:      ln,
		intents: make(chan intent.Intent, queueSize),
		logger:  log.WithComponent("switch_channel").With().Str(log.FieldSocket, path).Logger(),
	}, nil
}

// Intents is the queue consumed by the supervisor.
func (c *SwitchChannel) Intents() <-chan intent.Intent { return c.intents }

// Serve accepts connections until ctx is cancelled, then closes the
// listener (removing the socket file). A full queue blocks accepting rather
// than dropping intents.
func (c *SwitchChannel) Serve(ctx context.Context) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		_ = c.ln.Close()
	}()

	for {
		conn, err := c.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			c.logger.Warn().Err(err).Str(log.FieldEvent, "ipc.accept_failed").Msg("accept failed")
			continue
		}
		it, ok := c.read(conn)
		if !ok {
			continue
		}
		select {
		case c.intents <- it:
			metrics.IncIPCMessage(endpointSwitch, "ok")
		case <-ctx.Done():
			return nil
		}
	}
}

// Close stops the listener. Serve returns shortly after.
func (c *SwitchChannel) Close() error {
	err := c.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (c *SwitchChannel) read(conn net.Conn) (intent.Intent, bool) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(switchReadTimeout))
	buf, err := io.ReadAll(io.LimitReader(conn, MaxSwitchMessage))
	if err != nil && len(buf) == 0 {
		metrics.IncIPCMessage(endpointSwitch, "read_error")
		return intent.Intent{}, false
	}
	it, ok := intent.ParseMessage(string(buf))
	if !ok {
		metrics.IncIPCMessage(endpointSwitch, "discarded")
		c.logger.Debug().Str(log.FieldEvent, "ipc.discarded").Int("bytes", len(buf)).Msg("discarded switch message")
		return intent.Intent{}, false
	}
	c.logger.Debug().Str(log.FieldEvent, "ipc.switch").Str(log.FieldIntent, it.String()).Msg("switch message queued")
	return it, true
}

// SendIntent is the client side: fire and forget, errors are for logging only.
func SendIntent(path string, it intent.Intent) error {
	msg := it.Message()
	if msg == "" {
		return nil
	}
	return Send(path, msg, SendTimeout)
}
