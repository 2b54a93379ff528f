// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import "github.com/mcadwell/sir-engine/pkg/types"

// IsSIR reports whether a parsed report is a special investigation report
// at all. Scanned corpora carry renewal notices and cover letters; those
// never yield an investigation number.
func IsSIR(r types.ParsedReport) bool {
	return r.Header.InvestigationNo != ""
}

// ParseDocument runs the full extraction pipeline over one document and
// returns a fresh ParsedReport. The function is pure: it reads only the
// immutable document text and shares no state across calls, so callers may
// parse any number of documents concurrently. Re-parsing identical text
// yields an identical result.
func ParseDocument(doc types.Document, loose bool) types.ParsedReport {
	text := doc.FullText()
	variant := Classify(text)

	header := ExtractHeader(text)
	allegations := ExtractAllegations(text)
	raw := ExtractRuleCitations(text, variant, loose)

	// Reports that never label an initiation date open the methodology
	// narrative with the complaint receipt instead.
	if header.InitiationDate == "" {
		header.InitiationDate = header.ComplaintReceiptDate
	}

	// Tabular citations carry no conclusion of their own; pair them with
	// the allegation chain by position. Citations past the chain stay
	// Unknown.
	for i := range raw {
		if raw[i].Conclusion == "" && i < len(allegations) {
			raw[i].Conclusion = allegations[i].Conclusion
			raw[i].Violation = DeriveViolation(raw[i].Conclusion)
		}
	}

	citations, inconsistent := Dedup(raw)

	return types.ParsedReport{
		SHA256:           doc.SHA256,
		FileName:         doc.FileName,
		Variant:          variant,
		Header:           header,
		Allegations:      allegations,
		Citations:        citations,
		RawCitationCount: len(raw),
		Mismatch:         len(allegations) != len(raw),
		Inconsistent:     inconsistent,
	}
}
