// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"regexp"
	"strings"

	"github.com/mcadwell/sir-engine/internal/textmatch"
	"github.com/mcadwell/sir-engine/pkg/types"
)

// markerEdits is the fuzzy budget for subsection markers inside the
// methodology span. One edit covers the common OCR damage ("INVESTIGAT1ON",
// "CONCLUSSION") without letting unrelated words through.
const markerEdits = 1

var leadingJunkPat = regexp.MustCompile(`^[^a-zA-Z0-9]+`)

// ExtractAllegations walks the methodology span producing the ordered
// allegation/investigation/analysis/conclusion quads. A monotonic cursor
// advances through the span; each step tries its pattern alternatives in
// fixed priority and the loop stops at the first step with no alternative
// left, so partial trailing chains are dropped rather than padded.
func ExtractAllegations(text string) []types.AllegationRecord {
	span := MethodologySpan(text)
	if span.Empty() {
		return nil
	}
	rest := span.Text(text)

	var records []types.AllegationRecord
	for {
		allegation, next, ok := nextAllegation(rest)
		if !ok {
			break
		}
		rest = next

		investigation, next, ok := nextInvestigation(rest)
		if !ok {
			break
		}
		rest = next

		// Analysis is optional: some layouts bound the conclusion directly.
		analysis, next, ok := nextAnalysis(rest)
		if ok {
			rest = next
		}

		conclusion, next, ok := nextConclusion(rest)
		if !ok {
			break
		}
		rest = next

		records = append(records, types.AllegationRecord{
			Ordinal:       len(records) + 1,
			Allegation:    clean(allegation),
			Investigation: clean(investigation),
			Analysis:      clean(analysis),
			Conclusion:    clean(conclusion),
			Violation:     DeriveViolation(conclusion),
		})
	}
	return records
}

// nextAllegation finds the next allegation: an exact "ALLEGATION" or
// "ADDITIONAL FINDINGS" marker whose text runs to the following
// (approximate) investigation marker. Upper-case phrasing is preferred;
// title-case is the fallback for older report layouts.
func nextAllegation(rest string) (body, next string, ok bool) {
	for _, alt := range []struct {
		markers []string
		term    string
	}{
		{[]string{"ALLEGATION", "ADDITIONAL FINDINGS"}, "INVESTIGATION"},
		{[]string{"Allegation", "Additional Findings"}, "Investigation"},
	} {
		_, end, found := findFirstLiteral(rest, 0, alt.markers)
		if !found {
			continue
		}
		term, found := textmatch.Find(alt.term, markerEdits, rest, end)
		if !found {
			continue
		}
		return rest[end:term.Start], rest[term.Start:], true
	}
	return "", "", false
}

// nextInvestigation consumes the investigation marker plus separators and
// returns the text up to the next section marker. The terminator differs
// by layout: APPLICABLE (rule block follows), Analysis, or Conclusion.
func nextInvestigation(rest string) (body, next string, ok bool) {
	if body, next, ok = spanBetween(rest, "INVESTIGATION", "APPLICABLE", false); ok {
		return body, next, true
	}
	if body, next, ok = spanBetween(rest, "Investigation", "Analysis", false); ok {
		return body, next, true
	}
	return spanBetween(rest, "INVESTIGATION", "CONCLUSION", true)
}

// nextAnalysis behaves like nextInvestigation for the optional analysis
// subsection. All alternatives failing is not an error; the caller keeps
// its cursor and binds the conclusion directly.
func nextAnalysis(rest string) (body, next string, ok bool) {
	if body, next, ok = spanBetween(rest, "ANALYSIS", "CONCLUSION", false); ok {
		return body, next, true
	}
	if body, next, ok = spanBetween(rest, "Analysis", "Conclusion", false); ok {
		return body, next, true
	}
	return spanBetween(rest, "ANALYSIS", "VIOLATION", true)
}

// nextConclusion extracts the conclusion including its terminating token:
// CONCLUSION..ESTABLISHED, a bare VIOLATION..ESTABLISHED statement, or
// CONCLUSION..VIOLATION when the verdict word never appears. All matching
// is case-insensitive.
func nextConclusion(rest string) (body, next string, ok bool) {
	if m, found := textmatch.FindFold("CONCLUSION", markerEdits, rest, 0); found {
		after := skipSeparators(rest, m.End)
		if term, found := textmatch.FindFold("ESTABLISHED", markerEdits, rest, after); found {
			return rest[after:term.End], rest[term.End:], true
		}
	}
	if m, found := textmatch.FindFold("VIOLATION", markerEdits, rest, 0); found {
		after := skipSeparators(rest, m.End)
		if term, found := textmatch.FindFold("ESTABLISHED", markerEdits, rest, after); found {
			// The violation statement itself is the conclusion.
			return rest[m.Start:term.End], rest[term.End:], true
		}
	}
	if m, found := textmatch.FindFold("CONCLUSION", markerEdits, rest, 0); found {
		after := skipSeparators(rest, m.End)
		if term, found := textmatch.FindFold("VIOLATION", markerEdits, rest, after); found {
			return rest[after:term.End], rest[term.End:], true
		}
	}
	return "", "", false
}

// spanBetween finds an approximate marker, skips trailing colon/whitespace
// separators, and returns the text up to an approximate terminator. The
// returned next string starts at the terminator so the following step can
// re-anchor on it.
func spanBetween(rest, marker, terminator string, fold bool) (body, next string, ok bool) {
	find := textmatch.Find
	if fold {
		find = textmatch.FindFold
	}
	m, found := find(marker, markerEdits, rest, 0)
	if !found {
		return "", "", false
	}
	after := skipSeparators(rest, m.End)
	term, found := find(terminator, markerEdits, rest, after)
	if !found {
		return "", "", false
	}
	return rest[after:term.Start], rest[term.Start:], true
}

// skipSeparators advances past the ":" and whitespace run that follows a
// subsection marker.
func skipSeparators(s string, from int) int {
	for from < len(s) {
		c := s[from]
		if c != ':' && !isSpaceByte(c) {
			break
		}
		from++
	}
	return from
}

// clean collapses embedded line breaks to spaces and strips surrounding
// whitespace plus any leading non-alphanumeric run (bullet glyphs, OCR
// artifacts at section boundaries).
func clean(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	return leadingJunkPat.ReplaceAllString(s, "")
}
