// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bridge wires the CEC signaling bridge: announcements, the key
// monitor and the local control endpoint.
package bridge

import (
	"context"
	"strings"
	"sync"

	"github.com/ManuGH/ipcams/internal/metrics"
)

// Announce triggers.
const (
	TriggerStartup   = "startup"
	TriggerKeepalive = "keepalive"
	TriggerControl   = "control"
)

// Announcer sends the source announcement; handshake requests the one-time
// active source sequence. It reports whether the handshake was sent.
type Announcer interface {
	Announce(ctx context.Context, name string, handshake bool) (bool, error)
}

// State is the bridge's mutable state: the announced name and the one-shot
// handshake flag. Announcements are serialized so the handshake runs at
// most once per process.
type State struct {
	mu            sync.Mutex
	name          string
	defaultName   string
	forceOnce     bool
	handshakeDone bool
	announcer     Announcer
}

// NewState returns state announcing defaultName. forceOnce enables the
// one-time handshake.
func NewState(defaultName string, forceOnce bool, a Announcer) *State {
	return &State{name: defaultName, defaultName: defaultName, forceOnce: forceOnce, announcer: a}
}

// Name returns the currently announced name.
func (s *State) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName sets the announced name, falling back to the default when the
// trimmed name is empty. It returns the name in effect.
func (s *State) SetName(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = strings.TrimSpace(name)
	if s.name == "" {
		s.name = s.defaultName
	}
	return s.name
}

// HandshakeDone reports whether the one-time handshake has been sent.
func (s *State) HandshakeDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handshakeDone
}

// Announce announces the current name. Tool failures are returned for
// logging; they never disarm or re-arm the handshake.
func (s *State) Announce(ctx context.Context, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.IncAnnouncement(trigger)
	sent, err := s.announcer.Announce(ctx, s.name, s.forceOnce && !s.handshakeDone)
	if sent {
		s.handshakeDone = true
	}
	return err
}
