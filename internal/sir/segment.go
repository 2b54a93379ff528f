// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"github.com/mcadwell/sir-engine/internal/textmatch"
	"github.com/mcadwell/sir-engine/pkg/types"
)

// Span is a half-open byte range into a document's full text. A zero Span
// is empty, the legitimate result when a required marker is absent.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Text returns the spanned substring of text.
func (s Span) Text(text string) string {
	if s.Empty() || s.Start < 0 || s.End > len(text) {
		return ""
	}
	return text[s.Start:s.End]
}

// Heading tokens appear with OCR substitutions ("lll" for "III", "lV" for
// "IV"). Those are three and two character edits away, past any sane fuzzy
// budget, so the roman-numeral variants are spelled out as literals while
// word tokens use the fuzzy matcher.
var (
	sectionIIMarkers  = []string{"II", "ll"}
	sectionIIIMarkers = []string{"III", "lll"}
	sectionIVMarkers  = []string{"IV", "lV"}
	methodologyEnd    = []string{"IV.", "lV."}
)

// MethodologySpan locates the Methodology section: from just past the
// METHODOLOGY heading (matched within two edits, any case) to the next
// "IV." section marker, or end of text when none follows.
func MethodologySpan(text string) Span {
	m, ok := textmatch.FindFold("METHODOLOGY", 2, text, 0)
	if !ok {
		return Span{}
	}
	end := len(text)
	if stop, _, ok := findFirstLiteral(text, m.End, methodologyEnd); ok {
		end = stop
	}
	return Span{Start: m.End, End: end}
}

// RuleSectionSpan locates the span rule citations are extracted from.
// Variant B numbers that section II (first "II" to the next "III");
// variant A numbers it III (first "III" to the next "IV"). The span runs
// to end of text when the closing marker is absent, and is empty when the
// opening marker is absent.
func RuleSectionSpan(text string, variant types.StructuralVariant) Span {
	open, close := sectionIIIMarkers, sectionIVMarkers
	if variant == types.VariantB {
		open, close = sectionIIMarkers, sectionIIIMarkers
	}
	_, afterOpen, ok := findFirstLiteral(text, 0, open)
	if !ok {
		return Span{}
	}
	end := len(text)
	if stop, _, ok := findFirstLiteral(text, afterOpen, close); ok {
		end = stop
	}
	return Span{Start: afterOpen, End: end}
}

// findFirstLiteral returns the start and end of the earliest occurrence of
// any literal at or after from. Ties at the same offset resolve to the
// earlier list entry.
func findFirstLiteral(text string, from int, lits []string) (start, end int, ok bool) {
	if from < 0 || from > len(text) {
		return 0, 0, false
	}
	best, bestLen := -1, 0
	for _, lit := range lits {
		idx := indexFrom(text, lit, from)
		if idx >= 0 && (best < 0 || idx < best) {
			best, bestLen = idx, len(lit)
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, best + bestLen, true
}

func indexFrom(text, lit string, from int) int {
	if m, ok := textmatch.Find(lit, 0, text, from); ok {
		return m.Start
	}
	return -1
}
