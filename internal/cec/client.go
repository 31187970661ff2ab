// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cec

import (
	"context"
	"time"

	"github.com/ManuGH/ipcams/internal/metrics"
)

// Logical addresses and opcodes used by the announcer.
const (
	addrTV        = "0"
	addrBroadcast = "15"

	opImageViewOn  = "0x04"
	opActiveSource = "0x82"
)

// Operation names, used in errors, logs and metrics.
const (
	OpPhysicalAddress = "physical_address"
	OpClaimPlayback   = "claim_playback"
	OpOneTouchPlay    = "one_touch_play"
	OpActiveSource    = "active_source"
	OpMonitor         = "monitor"
)

// Client issues cec-ctl commands against one device.
type Client struct {
	Binary string
	Device string
	Runner Runner
}

// NewClient returns a client using an ExecRunner with the given timeout.
func NewClient(binary, device string, timeout time.Duration) *Client {
	return &Client{Binary: binary, Device: device, Runner: ExecRunner{Timeout: timeout}}
}

func (c *Client) run(ctx context.Context, op string, args ...string) (string, error) {
	full := append([]string{"-d", c.Device}, args...)
	out, err := c.Runner.Run(ctx, c.Binary, full...)
	if err != nil {
		te := newToolError(op, err)
		metrics.IncToolInvocation(op, te.Kind)
		return out, te
	}
	metrics.IncToolInvocation(op, "ok")
	return out, nil
}

// PhysicalAddress queries the device's physical address. The boolean is
// false when the output carried no parseable address.
func (c *Client) PhysicalAddress(ctx context.Context) (PhysicalAddress, bool, error) {
	out, err := c.run(ctx, OpPhysicalAddress, "-x")
	if err != nil {
		return PhysicalAddress{}, false, err
	}
	a, ok := ExtractPhysicalAddress(out)
	return a, ok, nil
}

// ClaimPlayback registers as a playback device with the given OSD name.
func (c *Client) ClaimPlayback(ctx context.Context, name string) error {
	_, err := c.run(ctx, OpClaimPlayback, "--playback", "--osd-name", name, "-L")
	return err
}

// OneTouchPlay asks the TV to switch on and show us.
func (c *Client) OneTouchPlay(ctx context.Context, name string) error {
	_, err := c.run(ctx, OpOneTouchPlay, "--playback", "--osd-name", name,
		"-t", addrTV, "--custom-command", "cmd="+opImageViewOn)
	return err
}

// ActiveSource broadcasts that addr is now the active source.
func (c *Client) ActiveSource(ctx context.Context, name string, addr PhysicalAddress) error {
	_, err := c.run(ctx, OpActiveSource, "--playback", "--osd-name", name,
		"-t", addrBroadcast, "--custom-command", "cmd="+opActiveSource+",payload="+addr.PayloadArg())
	return err
}

// MonitorArgs are the arguments for the continuous verbose monitor.
func (c *Client) MonitorArgs() []string {
	return []string{"-d", c.Device, "--monitor-all", "--show-raw", "--verbose"}
}
