// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultCameras is the camera order used when neither CAM_CONFIG nor
// CAM_IDS is set.
var DefaultCameras = []string{"front", "garden", "livingroom", "cellar"}

// RTSPConfig holds the pieces every camera stream URL is derived from.
type RTSPConfig struct {
	User   string
	Pass   string
	Domain string
	Port   int
	Path   string
}

// SwitcherConfig configures the playback supervisor (cam-switcher).
type SwitcherConfig struct {
	Cameras []string
	RTSP    RTSPConfig
	Title   string // banner title
	Player  string // ffplay binary

	SwitchSocket string
	StatusFile   string

	PollInterval  time.Duration
	KillGrace     time.Duration
	Settle        time.Duration
	RestartDelay  time.Duration
	RestartBurst  int
	RestartWindow time.Duration

	MetricsAddr string
	LogLevel    string
	LogFile     string
}

// LoadSwitcher reads the supervisor configuration from the environment.
// Missing RTSP credentials are fatal and reported as ErrMissingCredentials.
func LoadSwitcher() (SwitcherConfig, error) {
	cameras := ParseStringSlice("CAM_IDS", DefaultCameras)
	if path := ParseString("CAM_CONFIG", ""); path != "" {
		ids, err := LoadCameraFile(path)
		if err != nil {
			return SwitcherConfig{}, err
		}
		cameras = ids
	}

	cfg := SwitcherConfig{
		Cameras: cameras,
		RTSP: RTSPConfig{
			User:   ParseString("RTSP_USER", ""),
			Pass:   ParseString("RTSP_PASS", ""),
			Domain: ParseString("RTSP_DOMAIN", "lan"),
			Port:   ParseInt("RTSP_PORT", 554),
			Path:   ParseString("RTSP_PATH", "/h264Preview_01_sub"),
		},
		Title:         ParseString("CEC_OSD_BASE", "IP Cams"),
		Player:        ParseString("FFPLAY", "/usr/bin/ffplay"),
		SwitchSocket:  SwitchSocketPath(),
		StatusFile:    StatusFilePath(),
		PollInterval:  ParseDuration("CAM_POLL", 50*time.Millisecond),
		KillGrace:     ParseDuration("CAM_KILL_GRACE", 800*time.Millisecond),
		Settle:        ParseDuration("CAM_SETTLE", 150*time.Millisecond),
		RestartDelay:  ParseDuration("CAM_RESTART_DELAY", 500*time.Millisecond),
		RestartBurst:  ParseInt("CAM_RESTART_BURST", 5),
		RestartWindow: ParseDuration("CAM_RESTART_WINDOW", 2*time.Second),
		MetricsAddr:   ParseString("CAM_METRICS_ADDR", ""),
		LogLevel:      ParseString("LOG_LEVEL", "info"),
		LogFile:       ParseString("LOG_FILE", ""),
	}
	if err := cfg.Validate(); err != nil {
		return SwitcherConfig{}, err
	}
	return cfg, nil
}

// SwitchSocketPath resolves the supervisor's switch channel socket.
func SwitchSocketPath() string {
	runtimeDir := ParseString("XDG_RUNTIME_DIR", "/tmp")
	return ParseString("CAM_SWITCH_SOCK", filepath.Join(runtimeDir, "ipcams", "cam-switch.sock"))
}

// StatusFilePath returns CAM_STATUS_FILE; empty disables the status file.
func StatusFilePath() string {
	return ParseString("CAM_STATUS_FILE", "")
}

// Validate checks the supervisor configuration for unusable values.
func (c SwitcherConfig) Validate() error {
	switch {
	case c.RTSP.User == "" || c.RTSP.Pass == "":
		return ErrMissingCredentials
	case len(c.Cameras) == 0:
		return ErrNoCameras
	case c.RTSP.Port <= 0 || c.RTSP.Port > 65535:
		return fmt.Errorf("%w: RTSP_PORT %d out of range", ErrInvalidValue, c.RTSP.Port)
	case c.Player == "":
		return fmt.Errorf("%w: FFPLAY is empty", ErrInvalidValue)
	case c.SwitchSocket == "":
		return fmt.Errorf("%w: CAM_SWITCH_SOCK is empty", ErrInvalidValue)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: CAM_POLL must be positive", ErrInvalidValue)
	case c.KillGrace <= 0:
		return fmt.Errorf("%w: CAM_KILL_GRACE must be positive", ErrInvalidValue)
	case c.Settle < 0 || c.RestartDelay < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidValue)
	case c.RestartBurst <= 0 || c.RestartWindow <= 0:
		return fmt.Errorf("%w: restart limiter needs a positive burst and window", ErrInvalidValue)
	}
	return nil
}
