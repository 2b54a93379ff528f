// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/pkg/types"
)

func report(sha, invNo, license string) types.ParsedReport {
	return types.ParsedReport{
		SHA256:   sha,
		FileName: sha + ".pdf",
		Variant:  types.VariantA,
		Header: types.HeaderRecord{
			InvestigationNo: invNo,
			LicenseNo:       license,
			FacilityName:    "Cedar House",
			FinalReportDate: "04/15/2024",
			Recommendation:  "Renew the license.",
		},
		Allegations: []types.AllegationRecord{
			{Ordinal: 1, Allegation: "Unattended resident.", Investigation: "Reviewed logs.",
				Conclusion: "Violation established.", Violation: types.ViolationEstablished},
			{Ordinal: 2, Allegation: "Missed medication.", Investigation: "Interviewed staff.",
				Conclusion: "Violation not established.", Violation: types.ViolationNotEstablished},
		},
		Citations: []types.RuleCitation{
			{Code: "400.1234", Description: "Supervision.", Conclusion: "Violation established.",
				Violation: types.ViolationEstablished, MentionCount: 1},
		},
	}
}

func writeReports(t *testing.T, reports ...types.ParsedReport) string {
	t.Helper()
	dir := t.TempDir()
	for _, r := range reports {
		data, err := yaml.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, r.SHA256+".yaml"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestLoadParsedDir(t *testing.T) {
	dir := writeReports(t, report("bbb", "2024A0002", "L2"), report("aaa", "2024A0001", "L1"))

	reports, err := LoadParsedDir(dir)
	if err != nil {
		t.Fatalf("LoadParsedDir: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	// Sorted by file name for reproducible exports.
	if reports[0].SHA256 != "aaa" || reports[1].SHA256 != "bbb" {
		t.Errorf("order = %s, %s", reports[0].SHA256, reports[1].SHA256)
	}
}

func TestLoadParsedDirMissing(t *testing.T) {
	if _, err := LoadParsedDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteCSVs(t *testing.T) {
	outDir := t.TempDir()
	reports := []types.ParsedReport{report("aaa", "2024A0001", "L1")}
	if err := WriteCSVs(reports, outDir); err != nil {
		t.Fatalf("WriteCSVs: %v", err)
	}

	rows := readCSV(t, filepath.Join(outDir, "output.csv"))
	if len(rows) != 2 {
		t.Fatalf("output.csv rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "File Name" || rows[0][len(rows[0])-1] != "Number of Allegations" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "aaa.pdf" || rows[1][2] != "2024A0001" {
		t.Errorf("data row = %v", rows[1])
	}
	if rows[1][len(rows[1])-1] != "2" {
		t.Errorf("allegation count = %q, want 2", rows[1][len(rows[1])-1])
	}

	rows = readCSV(t, filepath.Join(outDir, "violations.csv"))
	if len(rows) != 3 {
		t.Fatalf("violations.csv rows = %d, want 3", len(rows))
	}
	if rows[1][1] != "Unattended resident." || rows[1][5] != "Yes" {
		t.Errorf("first violation row = %v", rows[1])
	}
	if rows[2][5] != "No" {
		t.Errorf("second violation row = %v", rows[2])
	}

	rows = readCSV(t, filepath.Join(outDir, "rules.csv"))
	if len(rows) != 2 {
		t.Fatalf("rules.csv rows = %d, want 2", len(rows))
	}
	if rows[1][1] != "400.1234" || rows[1][4] != "Yes" {
		t.Errorf("rule row = %v", rows[1])
	}
}

func TestWriteCSVsReportNameFallsBackToSHA(t *testing.T) {
	r := report("hash-only", "2024A0003", "L3")
	r.FileName = ""
	outDir := t.TempDir()
	if err := WriteCSVs([]types.ParsedReport{r}, outDir); err != nil {
		t.Fatal(err)
	}
	rows := readCSV(t, filepath.Join(outDir, "output.csv"))
	if rows[1][0] != "hash-only" {
		t.Errorf("file name = %q, want sha fallback", rows[1][0])
	}
}

func TestWriteWebsiteData(t *testing.T) {
	second := report("bbb", "2024A0002", "L1") // same facility, second report
	third := report("ccc", "2024A0003", "L2")
	third.Header.FacilityName = "Aspen Lodge"
	noLicense := report("ddd", "", "")

	outDir := t.TempDir()
	err := WriteWebsiteData([]types.ParsedReport{
		report("aaa", "2024A0001", "L1"), second, third, noLicense,
	}, outDir)
	if err != nil {
		t.Fatalf("WriteWebsiteData: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "facilities_data.json"))
	if err != nil {
		t.Fatal(err)
	}
	var facilities []WebsiteFacility
	if err := json.Unmarshal(raw, &facilities); err != nil {
		t.Fatal(err)
	}
	if len(facilities) != 2 {
		t.Fatalf("facilities = %d, want 2 (unlicensed report dropped)", len(facilities))
	}
	// Sorted by facility name.
	if facilities[0].FacilityName != "Aspen Lodge" || facilities[1].LicenseNo != "L1" {
		t.Errorf("order = %+v", facilities)
	}
	if facilities[1].TotalReports != 2 || len(facilities[1].Documents) != 2 {
		t.Errorf("L1 facility = %+v", facilities[1])
	}
	if facilities[1].Documents[0].Established != 1 {
		t.Errorf("established count = %d, want 1", facilities[1].Documents[0].Established)
	}

	raw, err = os.ReadFile(filepath.Join(outDir, "facilities_summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var summary []WebsiteFacility
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 || summary[1].Documents != nil {
		t.Errorf("summary = %+v", summary)
	}
	if summary[1].TotalReports != 2 {
		t.Errorf("summary total = %d, want 2", summary[1].TotalReports)
	}
}
