// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// WebsiteDocument is one report entry in the facility data file.
type WebsiteDocument struct {
	InvestigationNo string `json:"investigation_no"`
	FinalReportDate string `json:"final_report_date,omitempty"`
	SHA256          string `json:"sha256"`
	FileName        string `json:"filename,omitempty"`
	Allegations     int    `json:"allegations"`
	Established     int    `json:"violations_established"`
}

// WebsiteFacility groups a facility's reports under its license number.
type WebsiteFacility struct {
	LicenseNo    string            `json:"licenseNo"`
	FacilityName string            `json:"facilityName"`
	Documents    []WebsiteDocument `json:"documents,omitempty"`
	TotalReports int               `json:"total_reports"`
}

// WriteWebsiteData groups reports by license number and writes two JSON
// files under outDir: facilities_data.json with the full document lists,
// and facilities_summary.json without them for fast initial page loads.
func WriteWebsiteData(reports []types.ParsedReport, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	byLicense := make(map[string]*WebsiteFacility)
	var order []string
	for _, r := range reports {
		license := r.Header.LicenseNo
		if license == "" {
			continue
		}
		f, ok := byLicense[license]
		if !ok {
			f = &WebsiteFacility{LicenseNo: license}
			byLicense[license] = f
			order = append(order, license)
		}
		if f.FacilityName == "" {
			f.FacilityName = r.Header.FacilityName
		}

		established := 0
		for _, a := range r.Allegations {
			if a.Violation == types.ViolationEstablished {
				established++
			}
		}
		f.Documents = append(f.Documents, WebsiteDocument{
			InvestigationNo: r.Header.InvestigationNo,
			FinalReportDate: r.Header.FinalReportDate,
			SHA256:          r.SHA256,
			FileName:        r.FileName,
			Allegations:     len(r.Allegations),
			Established:     established,
		})
		f.TotalReports = len(f.Documents)
	}

	facilities := make([]WebsiteFacility, 0, len(order))
	for _, license := range order {
		facilities = append(facilities, *byLicense[license])
	}
	sort.SliceStable(facilities, func(i, j int) bool {
		if facilities[i].FacilityName != facilities[j].FacilityName {
			return facilities[i].FacilityName < facilities[j].FacilityName
		}
		return facilities[i].LicenseNo < facilities[j].LicenseNo
	})

	if err := writeJSON(filepath.Join(outDir, "facilities_data.json"), facilities); err != nil {
		return err
	}

	summaries := make([]WebsiteFacility, 0, len(facilities))
	for _, f := range facilities {
		summaries = append(summaries, WebsiteFacility{
			LicenseNo:    f.LicenseNo,
			FacilityName: f.FacilityName,
			TotalReports: f.TotalReports,
		})
	}
	return writeJSON(filepath.Join(outDir, "facilities_summary.json"), summaries)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
