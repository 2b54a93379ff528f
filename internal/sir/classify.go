// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sir turns the OCR-derived free text of a special investigation
// report into a structured record: header fields, the ordered
// allegation/investigation/analysis/conclusion chain, and a deduplicated
// list of cited rule codes with derived violation status. Extraction is
// best-effort: a missing marker yields an empty field or empty slice,
// never an error.
package sir

import (
	"regexp"
	"strings"

	"github.com/mcadwell/sir-engine/pkg/types"
)

var (
	sectionIIHeading        = regexp.MustCompile(`\bII\.\s+([A-Z]+)`)
	sectionIIIInvestigation = regexp.MustCompile(`(?i)\bIII\.\s+INVESTIGATION`)
)

// Classify decides which of the two known section layouts a document
// follows. Variant B iff the first "II." heading begins with METHODOLOGY
// and no "III. INVESTIGATION" heading exists anywhere; everything else is
// variant A. Classification is total: every input maps to exactly one tag.
func Classify(text string) types.StructuralVariant {
	m := sectionIIHeading.FindStringSubmatch(text)
	if m != nil && strings.HasPrefix(m[1], "METHODOLOGY") && !sectionIIIInvestigation.MatchString(text) {
		return types.VariantB
	}
	return types.VariantA
}
