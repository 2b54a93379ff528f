// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survey clusters corpus documents by their top-level heading
// structure. The two-variant model the parser dispatches on was derived
// from this diagnostic; re-run it whenever extraction accuracy regresses
// to check for layouts the model does not cover.
package survey

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// rareThreshold flags signatures below this share of the corpus for
// manual review.
const rareThreshold = 0.01

const signatureSeparator = " -> "

var (
	headingPat        = regexp.MustCompile(`(?m)^\s*([IVX]+)\.\s+([A-Z][A-Z\s()\-/]+?)(?:\s*$|\n)`)
	allegationPat     = regexp.MustCompile(`(?i)ALLEGATION\(?S?\)?`)
	recommendationPat = regexp.MustCompile(`(?i)RECOMMENDATION\(?S?\)?`)
)

// maxHeadingWords truncates run-on headings where OCR merged body text
// into the heading line.
const maxHeadingWords = 4

// HeadingSignature extracts the ordered sequence of roman-numeral section
// headings, each truncated to its first words and normalized so
// singular/plural spellings ("ALLEGATION", "ALLEGATIONS") collapse to one
// form. An empty result means the document has no recognizable headings.
func HeadingSignature(text string) []string {
	matches := headingPat.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return nil
	}
	sections := make([]string, 0, len(matches))
	for _, m := range matches {
		heading := strings.TrimSpace(m[2])
		words := strings.Fields(heading)
		if len(words) > maxHeadingWords {
			words = words[:maxHeadingWords]
		}
		heading = strings.Join(words, " ")
		heading = allegationPat.ReplaceAllString(heading, "ALLEGATION(S)")
		heading = recommendationPat.ReplaceAllString(heading, "RECOMMENDATION(S)")
		sections = append(sections, m[1]+". "+heading)
	}
	return sections
}

// SignatureCount is one distinct heading sequence and its corpus frequency.
type SignatureCount struct {
	// Signature is the heading sequence joined with " -> ".
	Signature string `json:"signature" yaml:"signature"`

	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`

	// ExampleSHA identifies one document carrying the signature, for
	// pulling up a concrete specimen of a rare layout.
	ExampleSHA string `json:"example_sha" yaml:"example_sha"`
}

// Result is the corpus-wide tally.
type Result struct {
	// Analyzed counts documents with at least one recognizable heading.
	Analyzed int `json:"analyzed" yaml:"analyzed"`

	// Skipped counts documents that are not investigation reports or have
	// no headings.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Signatures lists every distinct sequence, most frequent first.
	Signatures []SignatureCount `json:"signatures" yaml:"signatures"`

	// Rare lists the signatures under the review threshold.
	Rare []SignatureCount `json:"rare,omitempty" yaml:"rare,omitempty"`
}

// Surveyor accumulates heading signatures across a corpus scan.
type Surveyor struct {
	analyzed int
	skipped  int
	counts   map[string]int
	examples map[string]string
	order    []string
}

func NewSurveyor() *Surveyor {
	return &Surveyor{
		counts:   make(map[string]int),
		examples: make(map[string]string),
	}
}

// Add tallies one document. Documents that are not investigation reports,
// or that carry no recognizable headings, are counted as skipped.
func (s *Surveyor) Add(doc types.Document) {
	text := doc.FullText()
	if !strings.Contains(text, "SPECIAL INVESTIGATION REPORT") {
		s.skipped++
		return
	}
	sig := HeadingSignature(text)
	if len(sig) == 0 {
		s.skipped++
		return
	}
	key := strings.Join(sig, signatureSeparator)
	if _, seen := s.counts[key]; !seen {
		s.order = append(s.order, key)
		s.examples[key] = doc.SHA256
	}
	s.counts[key]++
	s.analyzed++
}

// Result returns the tally sorted by frequency, ties in first-seen order,
// with signatures under the rare threshold broken out for review.
func (s *Surveyor) Result() Result {
	res := Result{Analyzed: s.analyzed, Skipped: s.skipped}
	rank := make(map[string]int, len(s.order))
	for i, key := range s.order {
		rank[key] = i
	}
	for _, key := range s.order {
		count := s.counts[key]
		pct := 0.0
		if s.analyzed > 0 {
			pct = 100 * float64(count) / float64(s.analyzed)
		}
		res.Signatures = append(res.Signatures, SignatureCount{
			Signature:  key,
			Count:      count,
			Percent:    pct,
			ExampleSHA: s.examples[key],
		})
	}
	sort.SliceStable(res.Signatures, func(i, j int) bool {
		if res.Signatures[i].Count != res.Signatures[j].Count {
			return res.Signatures[i].Count > res.Signatures[j].Count
		}
		return rank[res.Signatures[i].Signature] < rank[res.Signatures[j].Signature]
	})
	for _, sc := range res.Signatures {
		if float64(sc.Count) < float64(s.analyzed)*rareThreshold {
			res.Rare = append(res.Rare, sc)
		}
	}
	return res
}
