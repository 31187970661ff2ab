// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextWithSessionID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		sessionID string
		want      string
	}{
		{name: "nil context", ctx: nil, sessionID: "abc", want: "abc"},
		{name: "background context", ctx: context.Background(), sessionID: "s-1", want: "s-1"},
		{name: "empty session ID", ctx: context.Background(), sessionID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithSessionID(tt.ctx, tt.sessionID)
			if got := SessionIDFromContext(ctx); got != tt.want {
				t.Errorf("SessionIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionIDFromNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if got := SessionIDFromContext(nil); got != "" {
		t.Errorf("expected empty session ID, got %q", got)
	}
}

func TestWithContextAddsSessionField(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithSessionID(context.Background(), "sess-42")
	l := WithContext(ctx, logger)
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry[FieldSessionID] != "sess-42" {
		t.Errorf("expected session_id sess-42, got %v", entry[FieldSessionID])
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	l := WithContext(context.Background(), logger)
	l.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := entry[FieldSessionID]; ok {
		t.Error("session_id should be absent")
	}
}
