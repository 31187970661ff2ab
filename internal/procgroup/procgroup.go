// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package procgroup starts children as process group leaders and tears the
// whole group down, so helpers spawned by a player never outlive it.
package procgroup

import "errors"

// ErrKillFailed is returned by Terminate when the group survives SIGKILL.
var ErrKillFailed = errors.New("kill operation failed")
