// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cec

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/metrics"
)

// Remote control key codes (User Control Pressed operands).
const (
	KeyRewind      = 0x48
	KeyFastForward = 0x49
)

const (
	markerPressed  = "USER_CONTROL_PRESSED"
	markerReleased = "USER_CONTROL_RELEASED"
	prefixRaw      = "Raw:"
	prefixReceived = "Received"
)

// The raw line carries the opcode 0x44 (User Control Pressed) followed by
// the key code.
var rawKeyPattern = regexp.MustCompile(`\b0x44\b\s+0x([0-9a-fA-F]{2})\b`)

// Extractor turns cec-ctl monitor lines into switch intents. A key press is
// a marker line followed by a raw line; anything else in between aborts it.
// The zero value is ready to use.
type Extractor struct {
	awaiting bool
}

// Awaiting reports whether a press marker was seen and the raw line is due.
func (e *Extractor) Awaiting() bool { return e.awaiting }

// Feed consumes one line and returns an intent when a mapped key completes.
func (e *Extractor) Feed(line string) (intent.Intent, bool) {
	line = strings.TrimSpace(line)
	if strings.Contains(line, markerPressed) {
		e.awaiting = true
		return intent.Intent{}, false
	}
	if !e.awaiting {
		return intent.Intent{}, false
	}

	switch {
	case strings.HasPrefix(line, prefixRaw):
		e.awaiting = false
		code, ok := decodeKey(line)
		if !ok {
			metrics.IncKeyEvent("miss")
			return intent.Intent{}, false
		}
		return mapKey(code)
	case strings.Contains(line, markerReleased), strings.HasPrefix(line, prefixReceived):
		e.awaiting = false
	}
	return intent.Intent{}, false
}

func decodeKey(line string) (int, bool) {
	m := rawKeyPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	code, err := strconv.ParseUint(m[1], 16, 8)
	if err != nil {
		return 0, false
	}
	return int(code), true
}

func mapKey(code int) (intent.Intent, bool) {
	switch code {
	case KeyFastForward:
		metrics.IncKeyEvent(intent.MessageNext)
		return intent.Next(), true
	case KeyRewind:
		metrics.IncKeyEvent(intent.MessagePrev)
		return intent.Prev(), true
	default:
		metrics.IncKeyEvent("ignored")
		return intent.Intent{}, false
	}
}
