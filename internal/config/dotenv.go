// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFiles reads dotenv files into the process environment before any
// Parse* call runs. Variables that are already set win over file values.
// list is a comma separated list of paths (typically $ENV_FILE); missing
// files are skipped so a deployment can list optional overrides.
func LoadEnvFiles(list string) ([]string, error) {
	var loaded []string
	for _, part := range strings.Split(list, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
