// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldPID       = "pid"
	FieldBinary    = "binary"

	// Camera / playback fields
	FieldCamera = "camera"
	FieldIndex  = "index"
	FieldTotal  = "total"
	FieldURL    = "url"
	FieldSource = "source"

	// Bus fields
	FieldDevice   = "device"
	FieldOSDName  = "osd_name"
	FieldKeyCode  = "key_code"
	FieldIntent   = "intent"
	FieldAddress  = "physical_address"
	FieldToolOp   = "op"
	FieldToolKind = "kind"

	// IPC fields
	FieldSocket  = "socket"
	FieldCommand = "command"
)
