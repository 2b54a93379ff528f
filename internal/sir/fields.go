// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// Each header field carries an ordered list of pattern alternatives, tried
// first-match-wins: primary phrasing first, then synonyms observed in the
// corpus ("Agency Name" for "Name of Facility", run-together OCR labels
// like "LicenseeName"). An absent field is an empty string, not an error.

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	licenseNoPats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)License #:\s*([A-Z]+\d+)`),
	}

	investigationNoPats = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Investigation\s*#\s*:?\s*([0-9A-Z]+)`),
		regexp.MustCompile(`(?is)SI\s*#\s*:?\s*([0-9A-Z]+)`),
		regexp.MustCompile(`(?is)SIR\s*#\s*:?\s*([0-9A-Z]+)`),
		regexp.MustCompile(`(?is)Investigation\s*Number\s*:?\s*([0-9A-Z]+)`),
		regexp.MustCompile(`(?is)SI\s*Number\s*:?\s*([0-9A-Z]+)`),
		regexp.MustCompile(`(?is)SIR\s*Number\s*:?\s*([0-9A-Z]+)`),
	}

	// Case-sensitive: month names are capitalized in report headers, and a
	// case-folded match would pick up body prose ("may").
	finalReportDatePat = regexp.MustCompile(
		`\b(?:(?:` + monthNames + `) \d{1,2}, \d{4}|\d{1,2}/\d{1,2}/\d{4})\b`)

	facilityNamePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Name of Facility:\s*(.*?)\n`),
		regexp.MustCompile(`(?i)Agency Name:\s*(.*?)\n`),
		regexp.MustCompile(`(?i)Name of Agency:\s*(.*?)\n`),
	}

	capacityPats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Capacity:\s*(\d+)`),
	}

	effectiveDatePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Effective Date:\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
	}

	expirationDatePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Expiration Date:\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
	}

	originalIssuancePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Original Issuance Date:\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
	}

	facilityPhonePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Facility Telephone #:\s*(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`),
	}

	licenseePhonePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Licensee Telephone #:\s*(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`),
		regexp.MustCompile(`(?i)LicenseeTelephone #:\s*(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`),
	}

	licenseStatusPats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)License Status:\s*(\w+)`),
	}

	licenseeNamePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Licensee Name:\s*(.*?)\n`),
		regexp.MustCompile(`(?i)Licensee Group Organization:\s*(.*?)\n`),
		regexp.MustCompile(`(?i)LicenseeName:\s*(.*?)\n`),
	}

	programTypePats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Program Type:\s*(.*?)\n`),
	}

	// Administrator/designee appear as a pair in three different orderings.
	// Which pattern matches decides which capture is which role, so the
	// orderings are tried in fixed priority rather than merged.
	adminFirstPat    = regexp.MustCompile(`(?is)Administrator:\s*(.*?)\s+Licensee Designee:\s*(.*?)(?:\n|$)`)
	designeeChiefPat = regexp.MustCompile(`(?is)Licensee Designee:\s*(.*?)\s+Chief Administrator:\s*(.*?)(?:\n|$)`)
	designeeFirstPat = regexp.MustCompile(`(?is)Licensee Designee:\s*(.*?)\s+Administrator:\s*(.*?)(?:\n|$)`)

	complaintReceiptPat = regexp.MustCompile(`Complaint Receipt Date:\s*(\d{2}/\d{2}/\d{4})`)
	slashDatePat        = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	initiationDatePat   = regexp.MustCompile(`(?is)(\d{1,2}/\d{1,2}/\d{2,4}).{0,100}?initiat`)

	methodologyIIHeadingPat = regexp.MustCompile(`(?i)\bII\.\s*METHODOLOGY\b`)
	methodologyHeadingPat   = regexp.MustCompile(`(?i)\bMETHODOLOGY\b`)
	blankLinePat            = regexp.MustCompile(`\n\s*\n`)

	recommendationPat = regexp.MustCompile(`(?i)RECOMMENDATION`)
	underscoreRunPat  = regexp.MustCompile(`_{2,}`)
	monthWordPat      = regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\b`)
)

// ExtractHeader pulls all scalar header attributes from the full document
// text. Every lookup is independent; a field its document does not carry
// stays empty.
func ExtractHeader(text string) types.HeaderRecord {
	designee, admin := extractAdminAndDesignee(text)
	return types.HeaderRecord{
		LicenseNo:            firstMatch(text, licenseNoPats),
		InvestigationNo:      firstMatch(text, investigationNoPats),
		FinalReportDate:      firstWholeMatch(text, finalReportDatePat),
		Administrator:        admin,
		LicenseeDesignee:     designee,
		FacilityName:         firstMatch(text, facilityNamePats),
		FacilityAddress:      extractAddress(text, "Facility Address", "Agency Address"),
		FacilityTelephone:    firstMatch(text, facilityPhonePats),
		Capacity:             firstMatch(text, capacityPats),
		ComplaintReceiptDate: extractComplaintReceiptDate(text),
		InitiationDate:       extractInitiationDate(text),
		EffectiveDate:        firstMatch(text, effectiveDatePats),
		ExpirationDate:       firstMatch(text, expirationDatePats),
		OriginalIssuanceDate: firstMatch(text, originalIssuancePats),
		LicenseStatus:        strings.ToLower(firstMatch(text, licenseStatusPats)),
		LicenseeName:         firstMatch(text, licenseeNamePats),
		LicenseeAddress:      extractAddress(text, "Licensee Address", "LicenseeAddress"),
		LicenseeTelephone:    firstMatch(text, licenseePhonePats),
		ProgramType:          firstMatch(text, programTypePats),
		Recommendation:       extractRecommendation(text),
	}
}

// firstMatch tries patterns in order and returns the trimmed first capture
// group of the first one that matches.
func firstMatch(text string, pats []*regexp.Regexp) string {
	for _, p := range pats {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func firstWholeMatch(text string, pat *regexp.Regexp) string {
	return pat.FindString(text)
}

// extractAdminAndDesignee tries the three known orderings of the pair.
// The first pattern captures (administrator, designee); the other two
// capture (designee, administrator).
func extractAdminAndDesignee(text string) (designee, admin string) {
	if m := adminFirstPat.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}
	if m := designeeChiefPat.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := designeeFirstPat.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", ""
}

// extractAddress requires the label line followed by a line ending in a
// two-letter state abbreviation and a 5-or-9-digit postal code, and
// concatenates the two lines. Labels are tried in order.
func extractAddress(text string, labels ...string) string {
	for _, label := range labels {
		pat := regexp.MustCompile(
			fmt.Sprintf(`(?is)%s:\s*(.*?)\n\s*([^\n]*\b[A-Z]{2}\s+\d{5}(?:-\d{4})?)`, regexp.QuoteMeta(label)))
		if m := pat.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]) + " " + strings.TrimSpace(m[2])
		}
	}
	return ""
}

// methodologyWindow bounds the text scanned for methodology dates: from the
// heading to the first blank line or the next "III." marker.
func methodologyWindow(text string, heading *regexp.Regexp) (string, bool) {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	end := len(rest)
	if b := blankLinePat.FindStringIndex(rest); b != nil && b[0] < end {
		end = b[0]
	}
	for _, marker := range []string{"III.", "lll."} {
		if idx := strings.Index(rest, marker); idx >= 0 && idx < end {
			end = idx
		}
	}
	return rest[:end], true
}

// extractComplaintReceiptDate prefers the labeled field and falls back to
// the earliest slash-form date inside the "II. METHODOLOGY" window,
// reformatted to MM/DD/YYYY.
func extractComplaintReceiptDate(text string) string {
	if m := complaintReceiptPat.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	window, ok := methodologyWindow(text, methodologyIIHeadingPat)
	if !ok {
		return ""
	}
	var earliest time.Time
	for _, d := range slashDatePat.FindAllString(window, -1) {
		t, err := time.Parse("1/2/2006", d)
		if err != nil {
			t, err = time.Parse("1/2/06", d)
			if err != nil {
				continue
			}
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	if earliest.IsZero() {
		return ""
	}
	return earliest.Format("01/02/2006")
}

// extractInitiationDate looks for a slash-form date within 100 characters
// before "initiat" inside the methodology window; the label is often split
// across lines ("Investigation\nInitiation").
func extractInitiationDate(text string) string {
	window, ok := methodologyWindow(text, methodologyHeadingPat)
	if !ok {
		return ""
	}
	if m := initiationDatePat.FindStringSubmatch(window); m != nil {
		return m[1]
	}
	return ""
}

// extractRecommendation returns the text between a RECOMMENDATION heading
// and the signature block that follows it: an underscore run or the
// long-form report date. An occurrence with no such delimiter after it is
// skipped; with none left the field is empty.
func extractRecommendation(text string) string {
	for _, loc := range recommendationPat.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		for len(rest) > 0 && isSpaceByte(rest[0]) {
			rest = rest[1:]
		}
		end := -1
		if u := underscoreRunPat.FindStringIndex(rest); u != nil {
			end = u[0]
		}
		if m := monthWordPat.FindStringIndex(rest); m != nil && (end < 0 || m[0] < end) {
			end = m[0]
		}
		if end < 0 {
			continue
		}
		body := strings.TrimSpace(rest[:end])
		return strings.ReplaceAll(body, "\n", " ")
	}
	return ""
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
