// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned for physical addresses that are not four
// dot separated nibbles.
var ErrInvalidAddress = errors.New("invalid physical address")

// PhysicalAddress is a device's position on the bus, e.g. 1.0.0.0.
type PhysicalAddress [4]uint8

// DefaultAddress is used when the tool does not report an address.
var DefaultAddress = PhysicalAddress{1, 0, 0, 0}

var addressPattern = regexp.MustCompile(`Physical Address\s*:\s*([0-9]+\.[0-9]+\.[0-9]+\.[0-9]+)`)

// ParsePhysicalAddress parses "a.b.c.d" with every component in [0,15].
func ParsePhysicalAddress(s string) (PhysicalAddress, error) {
	var a PhysicalAddress
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil || n > 0xf {
			return PhysicalAddress{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		a[i] = uint8(n)
	}
	return a, nil
}

// ExtractPhysicalAddress finds the address in `cec-ctl -x` output.
func ExtractPhysicalAddress(output string) (PhysicalAddress, bool) {
	m := addressPattern.FindStringSubmatch(output)
	if m == nil {
		return PhysicalAddress{}, false
	}
	a, err := ParsePhysicalAddress(m[1])
	if err != nil {
		return PhysicalAddress{}, false
	}
	return a, true
}

func (a PhysicalAddress) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// Payload packs the address into the two operand bytes of Active Source.
func (a PhysicalAddress) Payload() [2]byte {
	return [2]byte{a[0]<<4 | a[1]&0xf, a[2]<<4 | a[3]&0xf}
}

// PayloadArg formats Payload for --custom-command, e.g. "0x10:0x00".
func (a PhysicalAddress) PayloadArg() string {
	p := a.Payload()
	return fmt.Sprintf("0x%02x:0x%02x", p[0], p[1])
}
