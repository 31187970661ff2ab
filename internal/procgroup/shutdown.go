// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix

package procgroup

import (
	"errors"
	"os/exec"
	"syscall"
	"time"

	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
)

// Terminate stops a process group: SIGTERM, wait up to grace for done to
// close, then SIGKILL and wait up to timeout. done must be closed by whoever
// owns cmd.Wait. It is safe to call on nil commands (returns nil).
func Terminate(cmd *exec.Cmd, done <-chan struct{}, grace, timeout time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	pid := cmd.Process.Pid

	log.L().Debug().Int(log.FieldPID, pid).Msg("sending SIGTERM to process group")
	recordSignal("SIGTERM", Kill(cmd, syscall.SIGTERM))

	select {
	case <-done:
		metrics.IncProcWait("graceful")
		return nil
	case <-time.After(grace):
	}

	log.L().Warn().Int(log.FieldPID, pid).Msg("SIGTERM grace period exceeded, sending SIGKILL to process group")
	recordSignal("SIGKILL", Kill(cmd, syscall.SIGKILL))

	select {
	case <-done:
		metrics.IncProcWait("forced")
		return nil
	case <-time.After(timeout):
		metrics.IncProcWait("stuck")
		return ErrKillFailed
	}
}

func recordSignal(sig string, err error) {
	switch {
	case err == nil:
		metrics.IncProcTerminate(sig, "sent")
	case errors.Is(err, syscall.ESRCH):
		metrics.IncProcTerminate(sig, "esrch")
	default:
		metrics.IncProcTerminate(sig, "error")
	}
}
