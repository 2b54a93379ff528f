// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/pkg/types"
)

func sirText(invNo string) string {
	return "SPECIAL INVESTIGATION REPORT\nInvestigation #: " + invNo +
		"\nII. METHODOLOGY\n\nAPPLICABLE RULE\nR 400.1234 Supervision.\nCONCLUSION: Violation not established.\nIII. RECOMMENDATION\n"
}

func writeCorpus(t *testing.T, docs []types.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	for _, doc := range docs {
		if err := ingest.AppendDocument(path, doc); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestRunSkipsDuplicatesAndNonSIR(t *testing.T) {
	docs := []types.Document{
		{SHA256: "s1", Pages: []string{sirText("2024A0001")}},
		{SHA256: "s2", Pages: []string{"renewal cover letter, no sections"}},
		{SHA256: "s3", Pages: []string{sirText("2024A0002")}},
		{SHA256: "s4", Pages: []string{sirText("2024A0001")}}, // repeat of s1's number
	}
	cfg := types.ParseConfig{
		CorpusPath: writeCorpus(t, docs),
		ParsedDir:  filepath.Join(t.TempDir(), "parsed"),
		Workers:    3,
	}

	var out bytes.Buffer
	sum, err := Run(cfg, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Parsed != 2 || sum.Skipped != 1 || sum.Duplicates != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Total() != 4 {
		t.Errorf("total = %d, want 4", sum.Total())
	}

	// The first carrier of an investigation number wins; s4 must not exist.
	for _, sha := range []string{"s1", "s3"} {
		if _, err := os.Stat(filepath.Join(cfg.ParsedDir, sha+".yaml")); err != nil {
			t.Errorf("missing report for %s: %v", sha, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.ParsedDir, "s4.yaml")); !os.IsNotExist(err) {
		t.Error("duplicate investigation number was written")
	}
}

func TestRunReportContent(t *testing.T) {
	cfg := types.ParseConfig{
		CorpusPath: writeCorpus(t, []types.Document{{SHA256: "s1", Pages: []string{sirText("2024A0009")}}}),
		ParsedDir:  filepath.Join(t.TempDir(), "parsed"),
	}
	var out bytes.Buffer
	if _, err := Run(cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(cfg.ParsedDir, "s1.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var report types.ParsedReport
	if err := yaml.Unmarshal(raw, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Header.InvestigationNo != "2024A0009" {
		t.Errorf("investigation no = %q", report.Header.InvestigationNo)
	}
	if report.Variant != types.VariantB {
		t.Errorf("variant = %q, want B", report.Variant)
	}
	if len(report.Citations) != 1 || report.Citations[0].Code != "400.1234" {
		t.Errorf("citations = %+v", report.Citations)
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	cfg := types.ParseConfig{
		CorpusPath: filepath.Join(t.TempDir(), "absent.jsonl"),
		ParsedDir:  filepath.Join(t.TempDir(), "parsed"),
	}
	var out bytes.Buffer
	sum, err := Run(cfg, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Total() != 0 {
		t.Errorf("summary = %+v, want empty", sum)
	}
}

func TestParseBySHA(t *testing.T) {
	cfg := types.ParseConfig{
		CorpusPath: writeCorpus(t, []types.Document{
			{SHA256: "findme", Pages: []string{sirText("2024A0100")}},
		}),
	}
	report, err := ParseBySHA(cfg, "findme")
	if err != nil {
		t.Fatalf("ParseBySHA: %v", err)
	}
	if report.Header.InvestigationNo != "2024A0100" {
		t.Errorf("investigation no = %q", report.Header.InvestigationNo)
	}
	if _, err := ParseBySHA(cfg, "missing"); err == nil {
		t.Error("expected error for unknown sha")
	}
}
