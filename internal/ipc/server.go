// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ipc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/rs/zerolog"
)

// MaxCommandSize bounds a command line read from a control connection.
const MaxCommandSize = 4096

// DefaultReadTimeout bounds how long a client may take to send its line.
const DefaultReadTimeout = 2 * time.Second

// Handler answers one command line. An empty reply closes the connection
// without writing. stop ends Serve after the reply is written.
type Handler func(ctx context.Context, line string) (reply string, stop bool)

// LineServer serves one connection at a time, one line per connection.
type LineServer struct {
	Endpoint    string // metrics label
	ReadTimeout time.Duration

	ln      net.Listener
	handler Handler
	logger  zerolog.Logger
}

// NewLineServer wraps an already listening socket.
func NewLineServer(endpoint string, ln net.Listener, h Handler) *LineServer {
	return &LineServer{
		Endpoint:    endpoint,
		ReadTimeout: DefaultReadTimeout,
		ln:          ln,
		handler:     h,
		logger: log.WithComponent("ipc").With().
			Str(log.FieldSocket, ln.Addr().String()).
			Str("endpoint", endpoint).
			Logger(),
	}
}

// Serve accepts connections until ctx is cancelled or the handler asks to
// stop. The listener is closed on return.
func (s *LineServer) Serve(ctx context.Context) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		_ = s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn().Err(err).Str(log.FieldEvent, "ipc.accept_failed").Msg("accept failed")
			continue
		}
		if s.handle(ctx, conn) {
			return nil
		}
	}
}

func (s *LineServer) handle(ctx context.Context, conn net.Conn) (stop bool) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(s.ReadTimeout))

	line, err := bufio.NewReader(io.LimitReader(conn, MaxCommandSize)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		metrics.IncIPCMessage(s.Endpoint, "read_error")
		s.logger.Debug().Err(err).Str(log.FieldEvent, "ipc.read_failed").Msg("read failed")
		return false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		metrics.IncIPCMessage(s.Endpoint, "empty")
		return false
	}

	reply, stop := s.handler(ctx, line)
	if reply == "" {
		metrics.IncIPCMessage(s.Endpoint, "no_reply")
	} else if _, err := io.WriteString(conn, reply); err != nil {
		metrics.IncIPCMessage(s.Endpoint, "write_error")
		s.logger.Debug().Err(err).Str(log.FieldEvent, "ipc.write_failed").Msg("write failed")
	} else {
		metrics.IncIPCMessage(s.Endpoint, "ok")
	}
	s.logger.Debug().
		Str(log.FieldEvent, "ipc.command").
		Str(log.FieldCommand, line).
		Bool("stop", stop).
		Msg("command handled")
	return stop
}
