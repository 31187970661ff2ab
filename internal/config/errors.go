// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "errors"

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrMissingCredentials is returned when RTSP_USER or RTSP_PASS is not set.
	ErrMissingCredentials = errors.New("RTSP_USER/RTSP_PASS not set")

	// ErrNoCameras is returned when the resolved camera list is empty.
	ErrNoCameras = errors.New("camera list is empty")

	// ErrInvalidValue is returned by Validate for out-of-range settings.
	ErrInvalidValue = errors.New("invalid configuration value")
)
