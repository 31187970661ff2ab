// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package camera derives the fixed, ordered list of camera streams.
package camera

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/ManuGH/ipcams/internal/config"
)

// ErrEmpty is returned when no camera identifiers are configured.
var ErrEmpty = errors.New("no cameras configured")

// Camera is one switchable stream.
type Camera struct {
	ID  string
	URL string
}

// StreamURL builds rtsp://user:pass@<id>.<domain>:<port><path>. Credentials
// are escaped; path is appended as configured so query strings such as
// "?channel=1&subtype=1" reach the camera intact.
func StreamURL(id string, rtsp config.RTSPConfig) string {
	u := url.URL{
		Scheme: "rtsp",
		User:   url.UserPassword(rtsp.User, rtsp.Pass),
		Host:   net.JoinHostPort(id+"."+rtsp.Domain, strconv.Itoa(rtsp.Port)),
	}
	return u.String() + rtsp.Path
}

// Build returns the camera list in configuration order.
func Build(ids []string, rtsp config.RTSPConfig) ([]Camera, error) {
	if len(ids) == 0 {
		return nil, ErrEmpty
	}
	cams := make([]Camera, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("duplicate camera id %q", id)
		}
		seen[id] = true
		cams = append(cams, Camera{ID: id, URL: StreamURL(id, rtsp)})
	}
	return cams, nil
}

// MaskURL removes user info from a URL string for safe logging.
func MaskURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}
