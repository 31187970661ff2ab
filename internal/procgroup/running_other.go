// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix && !linux

package procgroup

// Running reports the group leader when the group still answers signal 0.
// Without /proc the members cannot be listed individually.
func Running(pgid int) []int {
	if Alive(pgid) {
		return []int{pgid}
	}
	return nil
}
