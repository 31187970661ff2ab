// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build linux

package procgroup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStat(t *testing.T) {
	state, pgrp, ok := parseStat("4242 (ff play (x)) S 1 4242 4242 0 -1")
	require.True(t, ok)
	assert.Equal(t, "S", state)
	assert.Equal(t, 4242, pgrp)

	_, _, ok = parseStat("garbage")
	assert.False(t, ok)
	_, _, ok = parseStat("1 (x) S 1")
	assert.False(t, ok)
}

func TestRunningListsGroupMembers(t *testing.T) {
	cmd, done := startGroup(t, "sleep 10 & sleep 10")
	pgid := cmd.Process.Pid

	require.Eventually(t, func() bool { return len(Running(pgid)) >= 2 }, 2*time.Second, 20*time.Millisecond,
		"expected shell and background sleep in the group")

	require.NoError(t, Terminate(cmd, done, time.Second, time.Second))
	require.Eventually(t, func() bool { return len(Running(pgid)) == 0 }, 2*time.Second, 20*time.Millisecond,
		"no live member may survive Terminate")
	assert.Nil(t, Running(0))
}
