// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CameraFile is the optional YAML document naming the camera order.
//
//	cameras:
//	  - front
//	  - garden
type CameraFile struct {
	Cameras []string `yaml:"cameras"`
}

// LoadCameraFile parses path strictly: unknown keys and trailing documents
// are rejected so typos do not silently fall back to the default list.
func LoadCameraFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read camera file: %w", err)
	}
	return parseCameraFile(data)
}

func parseCameraFile(data []byte) ([]string, error) {
	var file CameraFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCameras
		}
		if isUnknownFieldError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict camera file parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("camera file contains multiple documents or trailing content")
	}

	var ids []string
	for _, id := range file.Cameras {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCameras
	}
	return ids, nil
}

func isUnknownFieldError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "field") && strings.Contains(msg, "not found")
}
