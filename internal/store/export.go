// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// exportLimit bounds a full-index dump; well above any realistic corpus.
const exportLimit = 100000

// ExportEntry is one report in an index dump, flattened for downstream
// consumers.
type ExportEntry struct {
	SHA256          string                   `json:"sha256" yaml:"sha256"`
	FileName        string                   `json:"filename,omitempty" yaml:"filename,omitempty"`
	InvestigationNo string                   `json:"investigation_no" yaml:"investigation_no"`
	LicenseNo       string                   `json:"license_no,omitempty" yaml:"license_no,omitempty"`
	Variant         string                   `json:"variant" yaml:"variant"`
	LicenseeName    string                   `json:"licensee_name,omitempty" yaml:"licensee_name,omitempty"`
	Allegations     []types.AllegationRecord `json:"allegations,omitempty" yaml:"allegations,omitempty"`
	Citations       []types.RuleCitation     `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// ExportYAML writes every indexed report to path as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, path string) (int, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return 0, err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}

// ExportJSON writes every indexed report to path as a JSON array.
func (s *Store) ExportJSON(ctx context.Context, path string) (int, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sha256 FROM reports ORDER BY investigation_no LIMIT ?`, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	var shas []string
	for rows.Next() {
		var sha string
		if err := rows.Scan(&sha); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sha: %w", err)
		}
		shas = append(shas, sha)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(shas))
	for _, sha := range shas {
		report, err := s.Lookup(ctx, sha)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{
			SHA256:          report.SHA256,
			FileName:        report.FileName,
			InvestigationNo: report.Header.InvestigationNo,
			LicenseNo:       report.Header.LicenseNo,
			Variant:         string(report.Variant),
			LicenseeName:    report.Header.LicenseeName,
			Allegations:     report.Allegations,
			Citations:       report.Citations,
		})
	}
	return entries, nil
}
