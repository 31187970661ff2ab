// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tui

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal holds the saved tty mode. Restore is guaranteed to run the
// underlying restore at most once.
type Terminal struct {
	fd    int
	state *term.State

	once       sync.Once
	restoreErr error
}

// MakeRaw switches f to raw mode. When f is not a terminal (service without
// a tty, tests) it returns a Terminal whose Restore is a no-op.
func MakeRaw(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return &Terminal{fd: -1}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	return &Terminal{fd: fd, state: state}, nil
}

// IsRaw reports whether the terminal was actually switched to raw mode.
func (t *Terminal) IsRaw() bool { return t.state != nil }

// Restore puts the terminal back into its original mode.
func (t *Terminal) Restore() error {
	t.once.Do(func() {
		if t.state != nil {
			t.restoreErr = term.Restore(t.fd, t.state)
		}
	})
	return t.restoreErr
}
