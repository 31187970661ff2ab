// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build linux

package procgroup

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Running lists live (non-zombie) members of process group pgid by scanning
// /proc. Zombies are excluded: they hold no resources and are reaped by
// whoever inherited them.
func Running(pgid int) []int {
	if pgid <= 0 {
		return nil
	}
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil
	}
	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join("/proc", e.Name(), "stat"))
		if err != nil {
			continue
		}
		state, group, ok := parseStat(string(data))
		if !ok || group != pgid || state == "Z" || state == "X" {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

// parseStat extracts state and pgrp from a /proc/<pid>/stat line. comm may
// contain spaces and parentheses, so fields are read after the last ')'.
func parseStat(line string) (state string, pgrp int, ok bool) {
	end := strings.LastIndexByte(line, ')')
	if end < 0 {
		return "", 0, false
	}
	fields := strings.Fields(line[end+1:])
	if len(fields) < 3 {
		return "", 0, false
	}
	pgrp, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}
	return fields[0], pgrp, true
}
