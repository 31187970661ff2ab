// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package switcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatusReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	first := Snapshot{Title: "IP Cams", Camera: "front", Position: 1, Total: 4, UpdatedAt: time.Unix(1700000000, 0).UTC()}
	second := Snapshot{Title: "IP Cams", Camera: "cellar", Position: 4, Total: 4, Restarting: true, PID: 42, UpdatedAt: time.Unix(1700000100, 0).UTC()}

	require.NoError(t, WriteStatus(path, first))
	require.NoError(t, WriteStatus(path, second))

	got, err := ReadStatus(path)
	require.NoError(t, err)
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadStatusErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadStatus(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = ReadStatus(bad)
	assert.Error(t, err)
}
