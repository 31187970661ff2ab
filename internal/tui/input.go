// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tui

import (
	"io"
	"time"
)

// EscapeTimeout bounds the wait for the rest of an escape sequence.
const EscapeTimeout = 50 * time.Millisecond

// KeyReader polls keystrokes without ever blocking the caller for longer
// than the requested timeout. A background goroutine owns the blocking reads.
type KeyReader struct {
	bytes <-chan byte
	dec   *Decoder
}

// NewKeyReader starts reading r. The goroutine exits when r returns an error
// (EOF included); after that Poll only waits out its timeout.
func NewKeyReader(r io.Reader, dec *Decoder) *KeyReader {
	ch := make(chan byte, 64)
	go func() {
		defer close(ch)
		buf := make([]byte, 32)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				ch <- b
			}
			if err != nil {
				return
			}
		}
	}()
	return &KeyReader{bytes: ch, dec: dec}
}

// Poll returns at most one event, waiting up to timeout for the first byte.
func (k *KeyReader) Poll(timeout time.Duration) Event {
	b, ok := k.next(timeout)
	if !ok {
		return Event{}
	}
	ev := k.dec.Feed(b)
	for k.dec.Pending() {
		b, ok = k.next(EscapeTimeout)
		if !ok {
			k.dec.Reset()
			return Event{}
		}
		ev = k.dec.Feed(b)
	}
	return ev
}

func (k *KeyReader) next(timeout time.Duration) (byte, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b, ok := <-k.bytes:
		if !ok {
			// Input is gone; keep the loop cadence instead of spinning.
			k.bytes = nil
			<-timer.C
			return 0, false
		}
		return b, true
	case <-timer.C:
		return 0, false
	}
}
