// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// BridgeConfig configures the CEC signaling bridge (ipcams-cec).
type BridgeConfig struct {
	Device          string        // CEC device node, e.g. /dev/cec0
	CecCtl          string        // path to the cec-ctl binary
	OSDName         string        // default on-screen name
	Keepalive       time.Duration // announce interval
	ForceActiveOnce bool          // run the active-source handshake once per process
	DeviceWait      time.Duration // how long to wait for the device node at startup
	CommandTimeout  time.Duration // per cec-ctl invocation
	MonitorRestart  time.Duration // delay before restarting a dead monitor

	RuntimeDir    string
	ControlSocket string // bridge-owned control endpoint
	SwitchSocket  string // supervisor-owned switch channel (client side)

	MetricsAddr string
	LogLevel    string
	LogFile     string
}

// LoadBridge reads the bridge configuration from the environment.
func LoadBridge() (BridgeConfig, error) {
	runtimeDir := ParseString("RUNTIME_DIR", "/run/ipcams")
	cfg := BridgeConfig{
		Device:          ParseString("CEC_DEV", "/dev/cec0"),
		CecCtl:          ParseString("CEC_CTL", "/usr/bin/cec-ctl"),
		OSDName:         ParseString("CEC_OSD_BASE", "Cams"),
		Keepalive:       time.Duration(ParseInt("CEC_KEEPALIVE_SEC", 120)) * time.Second,
		ForceActiveOnce: ParseBool("CEC_FORCE_ACTIVE_ONCE", true),
		DeviceWait:      ParseDuration("CEC_DEVICE_WAIT", 30*time.Second),
		CommandTimeout:  ParseDuration("CEC_TIMEOUT", 5*time.Second),
		MonitorRestart:  ParseDuration("CEC_MONITOR_RESTART", 5*time.Second),
		RuntimeDir:      runtimeDir,
		ControlSocket:   controlSocket(runtimeDir),
		SwitchSocket:    ParseString("CAM_SWITCH_SOCK", "/run/user/1000/ipcams/cam-switch.sock"),
		MetricsAddr:     ParseString("CEC_METRICS_ADDR", ""),
		LogLevel:        ParseString("LOG_LEVEL", "info"),
		LogFile:         ParseString("LOG_FILE", ""),
	}
	if err := cfg.Validate(); err != nil {
		return BridgeConfig{}, err
	}
	return cfg, nil
}

// ControlSocketPath resolves the bridge control socket without loading the
// rest of the configuration. Used by the ctl subcommand.
func ControlSocketPath() string {
	return controlSocket(ParseString("RUNTIME_DIR", "/run/ipcams"))
}

func controlSocket(runtimeDir string) string {
	return ParseString("CEC_CONTROL_SOCK", filepath.Join(runtimeDir, "ipcams-cec.sock"))
}

// Validate checks the bridge configuration for unusable values.
func (c BridgeConfig) Validate() error {
	switch {
	case c.Device == "":
		return fmt.Errorf("%w: CEC_DEV is empty", ErrInvalidValue)
	case c.CecCtl == "":
		return fmt.Errorf("%w: CEC_CTL is empty", ErrInvalidValue)
	case c.OSDName == "":
		return fmt.Errorf("%w: CEC_OSD_BASE is empty", ErrInvalidValue)
	case c.Keepalive <= 0:
		return fmt.Errorf("%w: CEC_KEEPALIVE_SEC must be positive", ErrInvalidValue)
	case c.CommandTimeout <= 0:
		return fmt.Errorf("%w: CEC_TIMEOUT must be positive", ErrInvalidValue)
	case c.ControlSocket == "" || c.SwitchSocket == "":
		return fmt.Errorf("%w: socket paths must be set", ErrInvalidValue)
	}
	return nil
}
