// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package cec drives the external cec-ctl tool: source announcements, the
// one-time active source handshake and decoding of remote key presses from
// its monitor output.
package cec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Tool failure kinds. A *ToolError unwraps to exactly one of these.
var (
	ErrToolStart   = errors.New("tool failed to start")
	ErrToolExit    = errors.New("tool exited with error")
	ErrToolTimeout = errors.New("tool timed out")
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 5 * time.Second

// Runner runs an external program and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs programs with os/exec, killing them after Timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// Run implements Runner. Errors wrap ErrToolStart, ErrToolExit or
// ErrToolTimeout.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err == nil {
		return string(out), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return string(out), fmt.Errorf("%w: %w", ErrToolTimeout, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), fmt.Errorf("%w: %w", ErrToolExit, err)
	}
	return string(out), fmt.Errorf("%w: %w", ErrToolStart, err)
}

// ToolError reports a failed cec-ctl operation.
type ToolError struct {
	Op   string // physical_address, claim_playback, one_touch_play, active_source
	Kind string // start, exit, timeout
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("cec-ctl %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

func newToolError(op string, err error) *ToolError {
	kind := "start"
	switch {
	case errors.Is(err, ErrToolTimeout):
		kind = "timeout"
	case errors.Is(err, ErrToolExit):
		kind = "exit"
	}
	return &ToolError{Op: op, Kind: kind, Err: err}
}
