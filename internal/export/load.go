// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders parsed reports into the downstream formats:
// flat CSV tables and the JSON files the public website loads.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// LoadParsedDir reads every parsed-report YAML file under dir, sorted by
// file name so exports are reproducible across runs.
func LoadParsedDir(dir string) ([]types.ParsedReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading parsed directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	reports := make([]types.ParsedReport, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var report types.ParsedReport
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
