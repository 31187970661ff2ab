// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyReaderPollsOneEventAtATime(t *testing.T) {
	k := NewKeyReader(strings.NewReader("n\x1b[Dq"), NewDecoder(4))

	assert.Equal(t, EventNext, k.Poll(time.Second).Kind)
	assert.Equal(t, EventPrev, k.Poll(time.Second).Kind)
	assert.Equal(t, EventQuit, k.Poll(time.Second).Kind)
}

func TestKeyReaderTimeoutWithoutInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	k := NewKeyReader(pr, NewDecoder(4))

	start := time.Now()
	assert.Equal(t, EventNone, k.Poll(30*time.Millisecond).Kind)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestKeyReaderTruncatedEscape(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	k := NewKeyReader(pr, NewDecoder(4))

	go func() { _, _ = pw.Write([]byte{0x1b, '['}) }()
	assert.Equal(t, EventNone, k.Poll(time.Second).Kind)

	go func() { _, _ = pw.Write([]byte("p")) }()
	assert.Equal(t, EventPrev, k.Poll(time.Second).Kind)
}

func TestKeyReaderClosedInputDoesNotSpin(t *testing.T) {
	k := NewKeyReader(strings.NewReader(""), NewDecoder(4))

	// Let the reader goroutine observe EOF.
	require.Eventually(t, func() bool {
		start := time.Now()
		k.Poll(20 * time.Millisecond)
		return k.bytes == nil && time.Since(start) >= 15*time.Millisecond
	}, time.Second, time.Millisecond)

	start := time.Now()
	assert.Equal(t, EventNone, k.Poll(20*time.Millisecond).Kind)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
