// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CECToolInvocationsTotal counts cec-ctl invocations by operation and result.
	CECToolInvocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_cec_tool_invocations_total",
		Help: "Total cec-ctl invocations",
	}, []string{"op", "result"})

	// CECKeyEventsTotal counts decoded remote key presses by mapped intent
	// ("next", "prev", "ignored", "miss").
	CECKeyEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_cec_key_events_total",
		Help: "Total remote key presses seen on the bus",
	}, []string{"intent"})

	// AnnouncementsTotal counts announce runs by trigger (startup, keepalive, control).
	AnnouncementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_cec_announcements_total",
		Help: "Total announce operations",
	}, []string{"trigger"})

	// HandshakesTotal counts one-shot active source handshakes.
	HandshakesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipcams_cec_handshakes_total",
		Help: "Total active source handshakes sent",
	})

	// IPCMessagesTotal counts local socket messages by endpoint and result.
	IPCMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipcams_ipc_messages_total",
		Help: "Total local socket messages",
	}, []string{"endpoint", "result"})
)

// IncToolInvocation records one cec-ctl run.
func IncToolInvocation(op, result string) {
	CECToolInvocationsTotal.WithLabelValues(op, result).Inc()
}

// IncKeyEvent records one decoded key press.
func IncKeyEvent(intent string) {
	CECKeyEventsTotal.WithLabelValues(intent).Inc()
}

// IncAnnouncement records one announce run.
func IncAnnouncement(trigger string) {
	AnnouncementsTotal.WithLabelValues(trigger).Inc()
}

// IncHandshake records one active source handshake.
func IncHandshake() {
	HandshakesTotal.Inc()
}

// IncIPCMessage records one local socket message.
func IncIPCMessage(endpoint, result string) {
	IPCMessagesTotal.WithLabelValues(endpoint, result).Inc()
}
