// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package intent defines the switch requests exchanged between the CEC
// bridge, the keyboard and the playback supervisor.
package intent

import (
	"fmt"
	"strings"
)

// Kind classifies a switch request.
type Kind int

const (
	KindNext Kind = iota + 1
	KindPrev
	KindDirect
)

// Wire messages accepted on the switch channel.
const (
	MessageNext = "next"
	MessagePrev = "prev"
)

// Intent is a single request to change the active camera.
type Intent struct {
	Kind  Kind
	Index int // only meaningful for KindDirect
}

// Next returns an intent selecting the following camera.
func Next() Intent { return Intent{Kind: KindNext} }

// Prev returns an intent selecting the preceding camera.
func Prev() Intent { return Intent{Kind: KindPrev} }

// Direct returns an intent selecting camera i (zero based).
func Direct(i int) Intent { return Intent{Kind: KindDirect, Index: i} }

// Target resolves the intent against the current index and camera count.
// The result is always in [0, count) for count > 0.
func (it Intent) Target(current, count int) int {
	switch it.Kind {
	case KindNext:
		return Normalize(current+1, count)
	case KindPrev:
		return Normalize(current-1, count)
	default:
		return Normalize(it.Index, count)
	}
}

// Message returns the switch-channel wire form, or "" for intents that have
// no wire representation.
func (it Intent) Message() string {
	switch it.Kind {
	case KindNext:
		return MessageNext
	case KindPrev:
		return MessagePrev
	default:
		return ""
	}
}

func (it Intent) String() string {
	switch it.Kind {
	case KindNext:
		return "next"
	case KindPrev:
		return "prev"
	case KindDirect:
		return fmt.Sprintf("direct(%d)", it.Index)
	default:
		return "none"
	}
}

// ParseMessage maps a trimmed switch-channel payload to an intent.
func ParseMessage(s string) (Intent, bool) {
	switch strings.TrimSpace(s) {
	case MessageNext:
		return Next(), true
	case MessagePrev:
		return Prev(), true
	default:
		return Intent{}, false
	}
}

// Normalize reduces i modulo count into [0, count). count must be positive.
func Normalize(i, count int) int {
	if count <= 0 {
		return 0
	}
	i %= count
	if i < 0 {
		i += count
	}
	return i
}
