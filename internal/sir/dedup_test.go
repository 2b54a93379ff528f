// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"testing"

	"github.com/mcadwell/sir-engine/pkg/types"
)

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	raw := []types.RuleCitation{
		{Code: "400.1111", Description: "first", Conclusion: "Violation established", Violation: types.ViolationEstablished},
		{Code: "400.2222", Description: "other", Conclusion: "Violation not established", Violation: types.ViolationNotEstablished},
		{Code: "400.1111", Description: "second", Conclusion: "Violation established", Violation: types.ViolationEstablished},
	}
	out, inconsistent := Dedup(raw)
	if inconsistent {
		t.Error("consistent mentions flagged inconsistent")
	}
	if len(out) != 2 {
		t.Fatalf("got %d citations, want 2", len(out))
	}
	if out[0].Code != "400.1111" || out[1].Code != "400.2222" {
		t.Errorf("order = %q, %q; want first-seen order", out[0].Code, out[1].Code)
	}
	if out[0].Description != "first" {
		t.Errorf("description = %q, want the first occurrence's", out[0].Description)
	}
	if out[0].MentionCount != 2 || out[1].MentionCount != 1 {
		t.Errorf("mention counts = %d, %d; want 2, 1", out[0].MentionCount, out[1].MentionCount)
	}
	if len(out[0].Mentions) != 2 {
		t.Errorf("got %d mentions, want 2", len(out[0].Mentions))
	}
}

func TestDedupFlagsConflictingStatus(t *testing.T) {
	raw := []types.RuleCitation{
		{Code: "400.5678", Conclusion: "Violation established", Violation: types.ViolationEstablished},
		{Code: "400.5678", Conclusion: "Violation not established", Violation: types.ViolationNotEstablished},
	}
	out, inconsistent := Dedup(raw)
	if !inconsistent {
		t.Fatal("conflicting statuses not flagged")
	}
	if len(out) != 1 {
		t.Fatalf("got %d citations, want 1", len(out))
	}
	c := out[0]
	if !c.Inconsistent {
		t.Error("citation not marked inconsistent")
	}
	// First-seen values stay untouched; the conflict is only recorded.
	if c.Violation != types.ViolationEstablished {
		t.Errorf("violation = %q, want first-seen Yes", c.Violation)
	}
	if c.MentionCount != 2 || len(c.Mentions) != 2 {
		t.Errorf("mentions = %d/%d, want 2/2", c.MentionCount, len(c.Mentions))
	}
	if c.Mentions[1].Violation != types.ViolationNotEstablished {
		t.Errorf("second mention = %q, want No", c.Mentions[1].Violation)
	}
}

func TestDedupEmpty(t *testing.T) {
	out, inconsistent := Dedup(nil)
	if out != nil || inconsistent {
		t.Errorf("Dedup(nil) = %v, %v", out, inconsistent)
	}
}

func TestDeriveViolation(t *testing.T) {
	tests := []struct {
		conclusion string
		want       types.Violation
	}{
		{"", types.ViolationUnknown},
		{"VIOLATION ESTABLISHED", types.ViolationEstablished},
		{"Violation not established.", types.ViolationNotEstablished},
		{"violation NOT established", types.ViolationNotEstablished},
		{"established, but not repeated", types.ViolationEstablished},
		{"no findings were made", types.ViolationUnknown},
	}
	for _, tt := range tests {
		if got := DeriveViolation(tt.conclusion); got != tt.want {
			t.Errorf("DeriveViolation(%q) = %q, want %q", tt.conclusion, got, tt.want)
		}
	}
}
