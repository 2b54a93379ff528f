// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"regexp"
	"strings"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// blockLookahead bounds the final citation block when no further
// "applicable rule" occurrence closes it.
const blockLookahead = 2000

var (
	applicableRulePat = regexp.MustCompile(`(?i)applicable (?:rule|policy)`)
	decimalCodePat    = regexp.MustCompile(`(?:R\s+)?(\d{3}\.\d+)`)
	fomCodePat        = regexp.MustCompile(`(?i)FOM\s+(\d+-\d+[A-Z]?)`)
	conclusionLabelPat = regexp.MustCompile(`(?i)\bCONCLUSION\s*:`)

	// Requiring the numeric suffix excludes tabular column headers such as
	// "Rule Code Placement" that share the literal prefix.
	tabularCodePat  = regexp.MustCompile(`Rule Code\s+(?:&\s+)?(?:[A-Z]{2,4}\s+)?(?:Rule|R)\s+(\d{3}\.\d+)`)
	bareRuleCodePat = regexp.MustCompile(`\bR\s+(\d{3}\.\d+)`)
	tabularEndPat   = regexp.MustCompile(`Violation|Rule Code`)
)

// ExtractRuleCitations returns the raw, pre-dedup rule citations of a
// document. The rule section is bounded per variant, then its content
// picks one of two mutually exclusive sub-formats: narrative "applicable
// rule" blocks carrying their own conclusions, or the tabular "Rule Code"
// listing that carries none. With loose set, section bounding is skipped
// and both sub-formats scan the whole document; higher recall at the risk
// of picking up rule-catalog appendices.
func ExtractRuleCitations(text string, variant types.StructuralVariant, loose bool) []types.RuleCitation {
	if loose {
		return append(extractBlockFormat(text), extractTabularFormat(text)...)
	}
	section := strings.TrimSpace(RuleSectionSpan(text, variant).Text(text))
	if section == "" {
		return nil
	}
	lower := strings.ToLower(section)
	if strings.Contains(lower, "applicable rule") || strings.Contains(lower, "applicable policy") {
		return extractBlockFormat(section)
	}
	return extractTabularFormat(section)
}

// extractBlockFormat parses narrative citation blocks. Each "applicable
// rule"/"applicable policy" occurrence opens a block that closes at the
// next occurrence, or after a fixed lookahead for the final one. A block
// with no recognizable code is dropped.
func extractBlockFormat(text string) []types.RuleCitation {
	starts := applicableRulePat.FindAllStringIndex(text, -1)
	var out []types.RuleCitation
	for i, loc := range starts {
		end := loc[0] + blockLookahead
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if end > len(text) {
			end = len(text)
		}
		block := text[loc[0]:end]

		code := parseRuleCode(block)
		if code == "" {
			continue
		}
		conclusion := parseBlockConclusion(block)
		out = append(out, types.RuleCitation{
			Code:        code,
			Description: strings.TrimSpace(block),
			Conclusion:  conclusion,
			Violation:   DeriveViolation(conclusion),
		})
	}
	return out
}

// parseRuleCode recognizes the decimal form ("400.1234", optional "R"
// prefix) and then the "FOM nnn-nn[A]" policy form.
func parseRuleCode(block string) string {
	if m := decimalCodePat.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if m := fomCodePat.FindStringSubmatch(block); m != nil {
		return "FOM " + strings.ToUpper(m[1])
	}
	return ""
}

// parseBlockConclusion returns the text after the block's "CONCLUSION:"
// label, cleaned; empty when the block carries no labeled conclusion.
func parseBlockConclusion(block string) string {
	loc := conclusionLabelPat.FindStringIndex(block)
	if loc == nil {
		return ""
	}
	return clean(block[loc[1]:])
}

// extractTabularFormat parses the "Rule Code & <ABBREV> Rule 400.xxx"
// listing. These citations carry no per-citation conclusion; the caller
// pairs them with the allegation chain by ordinal. When the strict pattern
// finds nothing, a bare "R 400.xxx" fallback runs instead.
func extractTabularFormat(text string) []types.RuleCitation {
	matches := tabularCodePat.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		matches = bareRuleCodePat.FindAllStringSubmatchIndex(text, -1)
	}
	var out []types.RuleCitation
	for _, m := range matches {
		start := m[0]
		out = append(out, types.RuleCitation{
			Code:        text[m[2]:m[3]],
			Description: tabularDescription(text, start),
			Violation:   types.ViolationUnknown,
		})
	}
	return out
}

// tabularDescription spans from the match to the next "Violation" or
// "Rule Code" token, skipping the first 20 characters so the citation's
// own prefix does not terminate it, and capping at 500 characters.
func tabularDescription(text string, start int) string {
	rest := text[start:]
	skip := 20
	if skip > len(rest) {
		skip = len(rest)
	}
	end := len(rest)
	if loc := tabularEndPat.FindStringIndex(rest[skip:]); loc != nil {
		end = skip + loc[0]
	} else if end > 500 {
		end = 500
	}
	return strings.TrimSpace(rest[:end])
}
