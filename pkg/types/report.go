// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// StructuralVariant tags one of the two known top-level section layouts
// in the SIR corpus.
type StructuralVariant string

const (
	// VariantA numbers the rule-citation section III (III..IV span).
	VariantA StructuralVariant = "A"

	// VariantB numbers the rule-citation section II (II..III span):
	// section II is METHODOLOGY and no "III. INVESTIGATION" heading exists.
	VariantB StructuralVariant = "B"
)

// Violation is the tri-state outcome of a cited rule or allegation.
type Violation string

const (
	ViolationEstablished    Violation = "Yes"
	ViolationNotEstablished Violation = "No"
	ViolationUnknown        Violation = "Unknown"
)

// Document is one ingested report: content hash, per-page text as extracted,
// and ingestion metadata. Immutable once written to the corpus file.
type Document struct {
	// SHA256 is the hex content hash of the source PDF and the document's identity.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// FileName is the original file name, when known.
	FileName string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// Pages holds the extracted text, one string per page.
	Pages []string `json:"text" yaml:"text"`

	// DateProcessed is the ingestion timestamp (RFC 3339).
	DateProcessed string `json:"dateprocessed,omitempty" yaml:"dateprocessed,omitempty"`
}

// FullText returns the pages joined with newlines, the form all extractors
// operate on.
func (d Document) FullText() string {
	return strings.Join(d.Pages, "\n")
}

// HeaderRecord holds the scalar header attributes of a report. Fields the
// document does not carry are empty strings; absence is not an error.
type HeaderRecord struct {
	LicenseNo           string `json:"license_no" yaml:"license_no"`
	InvestigationNo     string `json:"investigation_no" yaml:"investigation_no"`
	FinalReportDate     string `json:"final_report_date" yaml:"final_report_date"`
	Administrator       string `json:"administrator" yaml:"administrator"`
	LicenseeDesignee    string `json:"licensee_designee" yaml:"licensee_designee"`
	FacilityName        string `json:"facility_name" yaml:"facility_name"`
	FacilityAddress     string `json:"facility_address" yaml:"facility_address"`
	FacilityTelephone   string `json:"facility_telephone" yaml:"facility_telephone"`
	Capacity            string `json:"capacity" yaml:"capacity"`
	ComplaintReceiptDate string `json:"complaint_receipt_date" yaml:"complaint_receipt_date"`
	InitiationDate      string `json:"initiation_date" yaml:"initiation_date"`
	EffectiveDate       string `json:"effective_date" yaml:"effective_date"`
	ExpirationDate      string `json:"expiration_date" yaml:"expiration_date"`
	OriginalIssuanceDate string `json:"original_issuance_date" yaml:"original_issuance_date"`
	LicenseStatus       string `json:"license_status" yaml:"license_status"`
	LicenseeName        string `json:"licensee_name" yaml:"licensee_name"`
	LicenseeAddress     string `json:"licensee_address" yaml:"licensee_address"`
	LicenseeTelephone   string `json:"licensee_telephone" yaml:"licensee_telephone"`
	ProgramType         string `json:"program_type" yaml:"program_type"`
	Recommendation      string `json:"recommendation" yaml:"recommendation"`
}

// AllegationRecord is one allegation/investigation/analysis/conclusion quad
// from the Methodology section, in source order.
type AllegationRecord struct {
	// Ordinal is the 1-based position within the report.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	Allegation    string `json:"allegation" yaml:"allegation"`
	Investigation string `json:"investigation" yaml:"investigation"`

	// Analysis may be empty: some layouts bound the conclusion directly.
	Analysis   string `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Conclusion string `json:"conclusion" yaml:"conclusion"`

	// Violation is derived from the conclusion text alone.
	Violation Violation `json:"violation" yaml:"violation"`
}

// Mention is one raw (conclusion, status) pair for a rule code, retained
// through deduplication so conflicting duplicates stay auditable.
type Mention struct {
	Conclusion string    `json:"conclusion" yaml:"conclusion"`
	Violation  Violation `json:"violation" yaml:"violation"`
}

// RuleCitation is a deduplicated rule or policy citation. Code is either the
// decimal form ("400.1234") or the policy form ("FOM 722-03D").
type RuleCitation struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`

	// Conclusion is empty for tabular-format citations that could not be
	// paired with an allegation.
	Conclusion string    `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Violation  Violation `json:"violation" yaml:"violation"`

	// MentionCount is the number of raw citations folded into this entry (≥1).
	MentionCount int `json:"mention_count" yaml:"mention_count"`

	// Mentions lists every raw (conclusion, status) pair in encounter order.
	Mentions []Mention `json:"mentions,omitempty" yaml:"mentions,omitempty"`

	// Inconsistent is set when the mentions disagree on the violation status.
	// The first-seen values above are kept as-is; no mention is promoted to
	// authoritative.
	Inconsistent bool `json:"inconsistent,omitempty" yaml:"inconsistent,omitempty"`
}

// ParsedReport is the immutable result of parsing one document. A fresh
// value is produced per parse; nothing is shared across documents.
type ParsedReport struct {
	SHA256   string            `json:"sha256" yaml:"sha256"`
	FileName string            `json:"filename,omitempty" yaml:"filename,omitempty"`
	Variant  StructuralVariant `json:"variant" yaml:"variant"`

	Header      HeaderRecord       `json:"header" yaml:"header"`
	Allegations []AllegationRecord `json:"allegations,omitempty" yaml:"allegations,omitempty"`
	Citations   []RuleCitation     `json:"citations,omitempty" yaml:"citations,omitempty"`

	// RawCitationCount is the citation count before deduplication.
	RawCitationCount int `json:"raw_citation_count" yaml:"raw_citation_count"`

	// Mismatch flags an allegation count that differs from the raw citation
	// count. Advisory only; the parse itself succeeded.
	Mismatch bool `json:"mismatch" yaml:"mismatch"`

	// Inconsistent flags any rule code whose mentions disagree on status.
	Inconsistent bool `json:"inconsistent" yaml:"inconsistent"`
}
