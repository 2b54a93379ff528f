// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"testing"

	"github.com/mcadwell/sir-engine/pkg/types"
)

const twoChainSample = `II. METHODOLOGY

ALLEGATION:
Staff did not supervise residents.
INVESTIGATION:
On 01/02/2024 I visited the facility.
APPLICABLE RULE
R 400.1234 Supervision of residents.
ANALYSIS:
Supervision was adequate.
CONCLUSION: VIOLATION NOT ESTABLISHED

ALLEGATION:
Medication given late.
INVESTIGATION:
Reviewed medication logs.
APPLICABLE RULE
R 400.4321 Medication administration.
ANALYSIS:
Logs show repeated delays.
CONCLUSION: VIOLATION ESTABLISHED

IV. RECOMMENDATION
`

func TestExtractAllegationsTwoChains(t *testing.T) {
	records := ExtractAllegations(twoChainSample)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first, second := records[0], records[1]
	if first.Ordinal != 1 || second.Ordinal != 2 {
		t.Errorf("ordinals = %d, %d, want 1, 2", first.Ordinal, second.Ordinal)
	}
	if first.Allegation != "Staff did not supervise residents." {
		t.Errorf("first allegation = %q", first.Allegation)
	}
	if first.Investigation != "On 01/02/2024 I visited the facility." {
		t.Errorf("first investigation = %q", first.Investigation)
	}
	if first.Analysis != "Supervision was adequate." {
		t.Errorf("first analysis = %q", first.Analysis)
	}
	if first.Violation != types.ViolationNotEstablished {
		t.Errorf("first violation = %q, want No", first.Violation)
	}
	if second.Allegation != "Medication given late." {
		t.Errorf("second allegation = %q", second.Allegation)
	}
	if second.Violation != types.ViolationEstablished {
		t.Errorf("second violation = %q, want Yes", second.Violation)
	}
}

func TestExtractAllegationsTitleCase(t *testing.T) {
	text := `III. METHODOLOGY

Allegation:
Unsafe sleep practices.
Investigation:
Observed nap routines.
Analysis:
Practices followed policy.
Conclusion: Violation not established

IV. RECOMMENDATION
`
	records := ExtractAllegations(text)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Allegation != "Unsafe sleep practices." {
		t.Errorf("allegation = %q", r.Allegation)
	}
	if r.Investigation != "Observed nap routines." {
		t.Errorf("investigation = %q", r.Investigation)
	}
	if r.Analysis != "Practices followed policy." {
		t.Errorf("analysis = %q", r.Analysis)
	}
	if r.Violation != types.ViolationNotEstablished {
		t.Errorf("violation = %q, want No", r.Violation)
	}
}

func TestExtractAllegationsOCRDamagedMarkers(t *testing.T) {
	// One character of OCR damage per marker stays within the fuzzy budget.
	text := `II. METHODOLOGY

ALLEGATION:
Ratios exceeded.
INVESTIGAT1ON:
Counted residents on site.
APPLICABLE RULE
R 400.9999 Ratios.
ANALYSIS:
Within limits.
CONCLUSSION: VIOLATION NOT ESTABLISHED
`
	records := ExtractAllegations(text)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Allegation != "Ratios exceeded." {
		t.Errorf("allegation = %q", records[0].Allegation)
	}
	if records[0].Violation != types.ViolationNotEstablished {
		t.Errorf("violation = %q, want No", records[0].Violation)
	}
}

func TestExtractAllegationsPartialChainDropped(t *testing.T) {
	// Allegation and investigation without any conclusion: the chain is
	// incomplete and yields nothing rather than a padded record.
	text := `II. METHODOLOGY

ALLEGATION:
Something happened.
INVESTIGATION:
Looked into it.
APPLICABLE RULE text with no verdict
`
	if records := ExtractAllegations(text); len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestExtractAllegationsNoMethodology(t *testing.T) {
	if records := ExtractAllegations("plain letter with no sections"); records != nil {
		t.Errorf("got %v, want nil", records)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{": \nLeading junk stripped", "Leading junk stripped"},
		{"line\nbreaks\rcollapse", "line breaks collapse"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := clean(tt.in); got != tt.want {
			t.Errorf("clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
