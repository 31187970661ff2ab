// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"os/exec"
	"sort"

	"github.com/ManuGH/ipcams/internal/log"
	"github.com/rs/zerolog"
)

// BinaryChecker checks that an external tool is installed and executable.
type BinaryChecker struct {
	name string
	path string
}

// NewBinaryChecker creates a checker for an external program.
func NewBinaryChecker(name, path string) *BinaryChecker {
	return &BinaryChecker{name: name, path: path}
}

func (c *BinaryChecker) Name() string { return c.name }

func (c *BinaryChecker) Check(ctx context.Context) CheckResult {
	resolved, err := exec.LookPath(c.path)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: c.path,
		}
	}
	return CheckResult{Status: StatusHealthy, Message: resolved}
}

// LogStartupChecks runs every registered checker once and logs the
// outcome. Failures are reported, not enforced: the daemons retry their
// external tools on their own. It returns false if any check is unhealthy.
func (m *Manager) LogStartupChecks(ctx context.Context, logger zerolog.Logger) bool {
	checks, status := m.runChecks(ctx)
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := checks[name]
		ev := logger.Debug()
		if res.Status != StatusHealthy {
			ev = logger.Warn()
		}
		ev.Str(log.FieldEvent, "startup.check").
			Str("check", name).
			Str("status", string(res.Status)).
			Str("detail", res.Message).
			Str("error", res.Error).
			Msg("startup check")
	}
	return status != StatusUnhealthy
}
