// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import "github.com/mcadwell/sir-engine/pkg/types"

// Dedup folds raw citations in encounter order into one citation per rule
// code, keeping the first occurrence's fields untouched and recording
// every raw (conclusion, status) pair as a mention. When the mentions of a
// code disagree on violation status the code and the return flag are
// marked inconsistent; no mention is promoted to authoritative, the
// conflict is surfaced for review instead.
func Dedup(raw []types.RuleCitation) ([]types.RuleCitation, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	index := make(map[string]int, len(raw))
	out := make([]types.RuleCitation, 0, len(raw))
	inconsistent := false

	for _, c := range raw {
		mention := types.Mention{Conclusion: c.Conclusion, Violation: c.Violation}
		i, seen := index[c.Code]
		if !seen {
			c.MentionCount = 1
			c.Mentions = []types.Mention{mention}
			index[c.Code] = len(out)
			out = append(out, c)
			continue
		}
		out[i].MentionCount++
		out[i].Mentions = append(out[i].Mentions, mention)
		if c.Violation != out[i].Violation {
			out[i].Inconsistent = true
			inconsistent = true
		}
	}
	return out, inconsistent
}
