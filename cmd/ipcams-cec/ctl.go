// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ManuGH/ipcams/internal/bridge"
	"github.com/ManuGH/ipcams/internal/config"
	"github.com/ManuGH/ipcams/internal/ipc"
)

func runCtl(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ipcams-cec ctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sock := fs.String("sock", "", "control socket (default $CEC_CONTROL_SOCK or $RUNTIME_DIR/ipcams-cec.sock)")
	timeout := fs.Duration("timeout", 10*time.Second, "how long to wait for the reply")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	line, ok := ctlLine(fs.Args())
	if !ok {
		printCtlUsage(stderr)
		return 2
	}

	path := *sock
	if path == "" {
		path = config.ControlSocketPath()
	}
	reply, err := ipc.Request(path, line, *timeout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, reply)
	if reply+"\n" != bridge.ReplyOK {
		return 1
	}
	return 0
}

func ctlLine(args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	switch args[0] {
	case bridge.CmdAnnounce, bridge.CmdQuit:
		return args[0], len(args) == 1
	case bridge.CmdName:
		return bridge.CmdName + " " + strings.Join(args[1:], " "), true
	default:
		return "", false
	}
}

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ipcams-cec ctl [-sock path] announce")
	fmt.Fprintln(w, "  ipcams-cec ctl [-sock path] name <osd name>")
	fmt.Fprintln(w, "  ipcams-cec ctl [-sock path] quit")
}
