// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cec

import (
	"context"
	"errors"
	"os"

	"github.com/ManuGH/ipcams/internal/log"
	"github.com/ManuGH/ipcams/internal/metrics"
	"github.com/rs/zerolog"
)

// Announcer tells the display that we are a playback source. It holds no
// state of its own; the caller owns the one-shot handshake flag.
type Announcer struct {
	client *Client
	logger zerolog.Logger

	deviceExists func(path string) bool
}

// NewAnnouncer returns an announcer issuing commands through client.
func NewAnnouncer(client *Client) *Announcer {
	return &Announcer{
		client:       client,
		logger:       log.WithComponent("announcer").With().Str(log.FieldDevice, client.Device).Logger(),
		deviceExists: fileExists,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Announce claims the playback role under name. With handshake set it also
// sends One Touch Play and an Active Source broadcast. The returned bool
// reports whether the handshake was sent; it is false when the device node
// is missing, in which case nothing is done.
//
// Step failures do not stop later steps. They are logged and returned joined.
func (a *Announcer) Announce(ctx context.Context, name string, handshake bool) (bool, error) {
	if !a.deviceExists(a.client.Device) {
		a.logger.Debug().Str(log.FieldEvent, "cec.no_device").Msg("device missing, skipping announce")
		return false, nil
	}

	var errs []error
	addr, ok, err := a.client.PhysicalAddress(ctx)
	switch {
	case err != nil:
		errs = append(errs, err)
		a.warn(err, "physical address query failed, using default")
		addr = DefaultAddress
	case !ok:
		a.logger.Debug().Str(log.FieldEvent, "cec.address_default").Msg("no physical address in output, using default")
		addr = DefaultAddress
	}

	if err := a.client.ClaimPlayback(ctx, name); err != nil {
		errs = append(errs, err)
		a.warn(err, "claim playback failed")
	}

	if handshake {
		if err := a.client.OneTouchPlay(ctx, name); err != nil {
			errs = append(errs, err)
			a.warn(err, "one touch play failed")
		}
		if err := a.client.ActiveSource(ctx, name, addr); err != nil {
			errs = append(errs, err)
			a.warn(err, "active source broadcast failed")
		}
		metrics.IncHandshake()
	}

	a.logger.Info().
		Str(log.FieldEvent, "cec.announced").
		Str(log.FieldOSDName, name).
		Str(log.FieldAddress, addr.String()).
		Bool("handshake", handshake).
		Int("failed_steps", len(errs)).
		Msg("announced playback source")
	return handshake, errors.Join(errs...)
}

func (a *Announcer) warn(err error, msg string) {
	ev := a.logger.Warn().Err(err).Str(log.FieldEvent, "cec.tool_failed")
	var te *ToolError
	if errors.As(err, &te) {
		ev = ev.Str(log.FieldToolOp, te.Op).Str(log.FieldToolKind, te.Kind)
	}
	ev.Msg(msg)
}
