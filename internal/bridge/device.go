// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrDeviceTimeout is returned when the device node did not appear in time.
var ErrDeviceTimeout = errors.New("device did not appear")

// WaitForDevice blocks until path exists, the timeout elapses or ctx is
// done. It watches the parent directory so the node is seen as soon as the
// kernel creates it.
func WaitForDevice(ctx context.Context, path string, timeout time.Duration) error {
	if exists(path) {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	// The node may have appeared between the first check and Add.
	if exists(path) {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("%w: watcher closed", ErrDeviceTimeout)
			}
			if filepath.Clean(ev.Name) == filepath.Clean(path) && ev.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-w.Errors:
			if ok && err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		case <-timer.C:
			return fmt.Errorf("%w after %s: %s", ErrDeviceTimeout, timeout, path)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
