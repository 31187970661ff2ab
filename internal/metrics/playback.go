// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwitchesTotal counts switch operations by the source that requested them
	// (startup, remote, keyboard, restart).
	SwitchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_switches_total",
		Help: "Total camera switch operations",
	}, []string{"source"})

	// PlayerStartsTotal counts player process starts by result.
	PlayerStartsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_player_starts_total",
		Help: "Total player process start attempts",
	}, []string{"result"})

	// PlayerRestartsTotal counts automatic restarts after the player exited.
	PlayerRestartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipcams_player_restarts_total",
		Help: "Total automatic player restarts after an unexpected exit",
	})

	// ActiveCamera reports the zero-based index of the selected camera.
	ActiveCamera = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ipcams_active_camera_index",
		Help: "Index of the currently selected camera",
	})

	procTerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_proc_terminate_total",
		Help: "Signals sent to player process groups",
	}, []string{"signal", "result"})

	procWaitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_proc_wait_total",
		Help: "Outcome of waiting for terminated process groups",
	}, []string{"outcome"})
)

// IncSwitch records one switch operation.
func IncSwitch(source string) {
	SwitchesTotal.WithLabelValues(source).Inc()
}

// IncPlayerStart records a player start attempt ("ok" or "error").
func IncPlayerStart(result string) {
	PlayerStartsTotal.WithLabelValues(result).Inc()
}

// IncPlayerRestart records one automatic restart.
func IncPlayerRestart() {
	PlayerRestartsTotal.Inc()
}

// SetActiveCamera updates the active camera gauge.
func SetActiveCamera(index int) {
	ActiveCamera.Set(float64(index))
}

// IncProcTerminate records a signal delivery to a process group.
func IncProcTerminate(signal, result string) {
	procTerminateTotal.WithLabelValues(signal, result).Inc()
}

// IncProcWait records how a terminated process group ended.
func IncProcWait(outcome string) {
	procWaitTotal.WithLabelValues(outcome).Inc()
}
