// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/ipcams/internal/config"
	"github.com/ManuGH/ipcams/internal/intent"
	"github.com/ManuGH/ipcams/internal/ipc"
	"github.com/ManuGH/ipcams/internal/switcher"
)

// runSend delivers next or prev to a running switcher.
func runSend(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("cam-switcher send", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sock := fs.String("sock", "", "switch socket (default $CAM_SWITCH_SOCK)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: cam-switcher send [-sock path] next|prev")
		return 2
	}
	it, ok := intent.ParseMessage(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "Unknown direction: %s (want next or prev)\n", fs.Arg(0))
		return 2
	}

	path := *sock
	if path == "" {
		path = config.SwitchSocketPath()
	}
	if err := ipc.SendIntent(path, it); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runStatus prints the status file written by a running switcher.
func runStatus(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cam-switcher status", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "status file (default $CAM_STATUS_FILE)")
	asJSON := fs.Bool("json", false, "print raw JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := *file
	if path == "" {
		path = config.StatusFilePath()
	}
	if path == "" {
		fmt.Fprintln(stderr, "Error: no status file (set CAM_STATUS_FILE or -file)")
		return 2
	}

	snap, err := switcher.ReadStatus(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	state := "playing"
	if snap.Restarting {
		state = "restarting"
	}
	fmt.Fprintf(stdout, "%s: %s (%d/%d) %s", snap.Title, snap.Camera, snap.Position, snap.Total, state)
	if snap.PID > 0 {
		fmt.Fprintf(stdout, " pid=%d", snap.PID)
	}
	fmt.Fprintf(stdout, " updated=%s\n", snap.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	return 0
}
