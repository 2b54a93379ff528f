// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// The CSV column headers are fixed by downstream spreadsheets; do not
// reorder or rename them.
var headerColumns = []string{
	"File Name",
	"License #",
	"Investigation #",
	"Final Report Date",
	"Administrator",
	"Capacity",
	"Complaint Receipt Date",
	"Investigation Initiation Date",
	"Effective Date",
	"Expiration Date",
	"Facility Address",
	"Facility Telephone #",
	"License Status",
	"Licensee Address",
	"Licensee Designee",
	"Licensee Name",
	"Licensee Telephone #",
	"Facility Name",
	"Original Issuance Date",
	"Program Type",
	"Recommendation",
	"Number of Allegations",
}

var violationColumns = []string{
	"File Name",
	"Allegation",
	"Investigation",
	"Analysis",
	"Conclusion",
	"Violation Established",
}

var ruleColumns = []string{
	"File Name",
	"Rule",
	"Description",
	"Conclusion",
	"Violation Established",
}

// WriteCSVs renders reports into three CSV files under outDir: output.csv
// (one row per report, header fields), violations.csv (one row per
// allegation) and rules.csv (one row per deduplicated citation).
func WriteCSVs(reports []types.ParsedReport, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeCSV(filepath.Join(outDir, "output.csv"), headerColumns, headerRows(reports)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, "violations.csv"), violationColumns, violationRows(reports)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(outDir, "rules.csv"), ruleColumns, ruleRows(reports))
}

func headerRows(reports []types.ParsedReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		h := r.Header
		rows = append(rows, []string{
			reportName(r),
			h.LicenseNo,
			h.InvestigationNo,
			h.FinalReportDate,
			h.Administrator,
			h.Capacity,
			h.ComplaintReceiptDate,
			h.InitiationDate,
			h.EffectiveDate,
			h.ExpirationDate,
			h.FacilityAddress,
			h.FacilityTelephone,
			h.LicenseStatus,
			h.LicenseeAddress,
			h.LicenseeDesignee,
			h.LicenseeName,
			h.LicenseeTelephone,
			h.FacilityName,
			h.OriginalIssuanceDate,
			h.ProgramType,
			h.Recommendation,
			strconv.Itoa(len(r.Allegations)),
		})
	}
	return rows
}

func violationRows(reports []types.ParsedReport) [][]string {
	var rows [][]string
	for _, r := range reports {
		for _, a := range r.Allegations {
			rows = append(rows, []string{
				reportName(r),
				a.Allegation,
				a.Investigation,
				a.Analysis,
				a.Conclusion,
				string(a.Violation),
			})
		}
	}
	return rows
}

func ruleRows(reports []types.ParsedReport) [][]string {
	var rows [][]string
	for _, r := range reports {
		for _, c := range r.Citations {
			rows = append(rows, []string{
				reportName(r),
				c.Code,
				c.Description,
				c.Conclusion,
				string(c.Violation),
			})
		}
	}
	return rows
}

// reportName identifies a report in exports: the original file name when
// ingestion recorded one, otherwise the content hash.
func reportName(r types.ParsedReport) string {
	if r.FileName != "" {
		return r.FileName
	}
	return r.SHA256
}

func writeCSV(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
