// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const clearScreen = "\033[2J\033[H"

// Status is what the banner shows.
type Status struct {
	Title      string
	Camera     string
	Index      int // zero based
	Total      int
	Restarting bool
}

// Render formats the banner text. Lines end in CRLF because output
// post-processing is off in raw mode.
func Render(s Status) string {
	var b strings.Builder
	name := s.Camera
	if s.Restarting {
		name += " (restarting)"
	}
	fmt.Fprintf(&b, "%s - %s (%d/%d)\r\n", s.Title, name, s.Index+1, s.Total)
	fmt.Fprintf(&b, "CEC remote: Rew=prev, FF=next | Keyboard fallback: n/→/Space=next, p/←=prev, %s direct, q quit\r\n", directRange(s.Total))
	b.WriteString("\r\n")
	return b.String()
}

func directRange(total int) string {
	n := total
	if n > MaxDirect {
		n = MaxDirect
	}
	if n <= 1 {
		return "1"
	}
	return fmt.Sprintf("1-%d", n)
}

// Banner clears the screen and redraws the status on every Show.
type Banner struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBanner draws on w (normally os.Stdout).
func NewBanner(w io.Writer) *Banner {
	return &Banner{w: w}
}

// Show redraws the banner.
func (b *Banner) Show(s Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, clearScreen+Render(s))
}
