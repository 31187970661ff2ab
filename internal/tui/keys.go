// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package tui owns the supervisor's terminal: raw key capture, key decoding
// and the one-screen status banner.
package tui

import "github.com/ManuGH/ipcams/internal/intent"

// EventKind classifies a decoded keystroke.
type EventKind int

const (
	EventNone EventKind = iota
	EventNext
	EventPrev
	EventDirect
	EventQuit
)

// MaxDirect is the highest camera reachable with a single digit key.
const MaxDirect = 9

// Event is one decoded keystroke.
type Event struct {
	Kind  EventKind
	Index int // zero-based camera for EventDirect
}

// Intent converts a switch event to an intent. Quit and None have none.
func (e Event) Intent() (intent.Intent, bool) {
	switch e.Kind {
	case EventNext:
		return intent.Next(), true
	case EventPrev:
		return intent.Prev(), true
	case EventDirect:
		return intent.Direct(e.Index), true
	default:
		return intent.Intent{}, false
	}
}

type decoderState int

const (
	stateGround decoderState = iota
	stateEscape              // saw ESC
	stateCSI                 // saw ESC [
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// Decoder turns raw terminal bytes into events. Arrow keys arrive as the
// three-byte sequences ESC [ C (right) and ESC [ D (left).
type Decoder struct {
	count int
	state decoderState
}

// NewDecoder returns a decoder for count cameras; digits above count (or
// above MaxDirect) are ignored.
func NewDecoder(count int) *Decoder {
	return &Decoder{count: count}
}

// Pending reports whether an escape sequence is partially read.
func (d *Decoder) Pending() bool { return d.state != stateGround }

// Reset abandons a partial escape sequence.
func (d *Decoder) Reset() { d.state = stateGround }

// Feed consumes one byte and returns the completed event, if any.
func (d *Decoder) Feed(b byte) Event {
	switch d.state {
	case stateEscape:
		if b == '[' {
			d.state = stateCSI
			return Event{}
		}
		d.state = stateGround
		return Event{}
	case stateCSI:
		d.state = stateGround
		switch b {
		case 'C':
			return Event{Kind: EventNext}
		case 'D':
			return Event{Kind: EventPrev}
		}
		return Event{}
	}

	switch b {
	case keyEscape:
		d.state = stateEscape
		return Event{}
	case 'n', 'N', ' ':
		return Event{Kind: EventNext}
	case 'p', 'P':
		return Event{Kind: EventPrev}
	case 'q', 'Q', keyCtrlC:
		return Event{Kind: EventQuit}
	}
	if b >= '1' && b <= '9' {
		n := int(b - '0')
		if n <= d.count && n <= MaxDirect {
			return Event{Kind: EventDirect, Index: n - 1}
		}
	}
	return Event{}
}
