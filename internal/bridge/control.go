// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bridge

import (
	"context"
	"strings"

	"github.com/ManuGH/ipcams/internal/ipc"
	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
)

// Control commands and replies.
const (
	CmdQuit     = "quit"
	CmdAnnounce = "announce"
	CmdName     = "name"

	ReplyOK      = "ok\n"
	ReplyUnknown = "unknown\n"
)

// ControlHandler answers control endpoint commands against st.
func ControlHandler(st *State) ipc.Handler {
	logger := log.WithComponent("control")
	return func(ctx context.Context, line string) (string, bool) {
		switch {
		case line == CmdQuit:
			logger.Info().Str(log.FieldEvent, "control.quit").Msg("quit requested")
			return ReplyOK, true
		case line == CmdAnnounce:
			if err := st.Announce(ctx, TriggerControl); err != nil {
				logger.Warn().Err(err).Str(log.FieldEvent, "control.announce_partial").Msg("announce had failures")
			}
			return ReplyOK, false
		case strings.HasPrefix(line, CmdName+" "):
			name := st.SetName(strings.TrimPrefix(line, CmdName+" "))
			logger.Info().Str(log.FieldEvent, "control.rename").Str(log.FieldOSDName, name).Msg("osd name changed")
			if err := st.Announce(ctx, TriggerControl); err != nil {
				logger.Warn().Err(err).Str(log.FieldEvent, "control.announce_partial").Msg("announce had failures")
			}
			return ReplyOK, false
		default:
			metrics.IncIPCMessage("control", "unknown")
			logger.Debug().Str(log.FieldEvent, "control.unknown").Str(log.FieldCommand, line).Msg("unknown command")
			return ReplyUnknown, false
		}
	}
}
