// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package switcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// Snapshot is the externally visible supervisor state written to the
// status file.
type Snapshot struct {
	Title      string    `json:"title"`
	Camera     string    `json:"camera"`
	Position   int       `json:"position"` // one based
	Total      int       `json:"total"`
	Restarting bool      `json:"restarting"`
	PID        int       `json:"pid,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WriteStatus replaces path atomically with the JSON snapshot.
func WriteStatus(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending status file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace status file: %w", err)
	}
	return nil
}

// ReadStatus loads a snapshot written by WriteStatus.
func ReadStatus(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return s, fmt.Errorf("read status: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode status %s: %w", path, err)
	}
	return s, nil
}
