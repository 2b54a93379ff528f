// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textmatch implements bounded edit-distance substring search, the
// one fuzzy primitive shared by the section segmenter, the allegation-chain
// extractor, and the rule-code extractor. OCR output substitutes and drops
// characters ("lll" for "III", missing colons), so exact marker lookups miss
// sections that are present.
package textmatch

import "strings"

// Match is a located occurrence of a needle in a haystack.
type Match struct {
	// Start is the byte offset where the match begins.
	Start int

	// End is the byte offset just past the match.
	End int
}

// Find scans haystack from byte offset from for the leftmost substring that
// matches needle within maxEdits character edits (Levenshtein: substitution,
// insertion, deletion). At the leftmost matching offset, the shortest
// lowest-cost expansion wins, so End is deterministic. An empty needle never
// matches.
func Find(needle string, maxEdits int, haystack string, from int) (Match, bool) {
	if needle == "" || from < 0 || from > len(haystack) {
		return Match{}, false
	}
	if maxEdits <= 0 {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return Match{}, false
		}
		return Match{Start: from + idx, End: from + idx + len(needle)}, true
	}

	for i := from; i < len(haystack); i++ {
		if !couldStart(needle, haystack, i, maxEdits) {
			continue
		}
		if length, ok := prefixWithin(needle, haystack[i:], maxEdits); ok {
			return Match{Start: i, End: i + length}, true
		}
	}
	return Match{}, false
}

// FindFold is Find with ASCII case folding applied to both strings.
// Folding is byte-wise, so the returned offsets index the original haystack.
func FindFold(needle string, maxEdits int, haystack string, from int) (Match, bool) {
	return Find(asciiUpper(needle), maxEdits, asciiUpper(haystack), from)
}

// FindAny tries each needle in order and returns the match for the first
// needle that occurs anywhere at or after from. The order expresses
// preference (e.g. an upper-case heading over a title-case one), so an
// earlier needle wins even when a later one matches sooner in the text.
func FindAny(needles []string, maxEdits int, haystack string, from int) (Match, bool) {
	for _, n := range needles {
		if m, ok := Find(n, maxEdits, haystack, from); ok {
			return m, true
		}
	}
	return Match{}, false
}

// couldStart is a cheap necessary condition for a match beginning at i: with
// at most k edits, one of the first k+1 needle characters survives unedited,
// aligned within the first 2k+1 haystack characters.
func couldStart(needle, haystack string, i, k int) bool {
	nEnd := k + 1
	if nEnd > len(needle) {
		nEnd = len(needle)
	}
	hEnd := i + 2*k + 1
	if hEnd > len(haystack) {
		hEnd = len(haystack)
	}
	for p := i; p < hEnd; p++ {
		c := haystack[p]
		for j := 0; j < nEnd; j++ {
			if needle[j] == c {
				return true
			}
		}
	}
	return false
}

// prefixWithin reports whether some non-empty prefix of window matches needle
// within maxEdits edits, returning the length of the cheapest (then shortest)
// such prefix. Standard two-row dynamic program over needle x window.
func prefixWithin(needle, window string, maxEdits int) (int, bool) {
	m := len(needle)
	w := m + maxEdits
	if w > len(window) {
		w = len(window)
	}
	if w == 0 {
		return 0, false
	}

	prev := make([]int, w+1)
	cur := make([]int, w+1)
	for j := 0; j <= w; j++ {
		prev[j] = j
	}

	for x := 1; x <= m; x++ {
		cur[0] = x
		rowMin := cur[0]
		for j := 1; j <= w; j++ {
			cost := 1
			if needle[x-1] == window[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost
			if del := prev[j] + 1; del < d {
				d = del
			}
			if ins := cur[j-1] + 1; ins < d {
				d = ins
			}
			cur[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > maxEdits {
			return 0, false
		}
		prev, cur = cur, prev
	}

	best, bestLen := maxEdits+1, 0
	for j := 1; j <= w; j++ {
		if prev[j] < best {
			best, bestLen = prev[j], j
		}
	}
	if best > maxEdits {
		return 0, false
	}
	return bestLen, true
}

// asciiUpper upper-cases ASCII letters byte-wise, preserving length.
func asciiUpper(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c - 'a' + 'A'
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}
