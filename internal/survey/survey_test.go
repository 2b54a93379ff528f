// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mcadwell/sir-engine/pkg/types"
)

func TestHeadingSignature(t *testing.T) {
	text := `SPECIAL INVESTIGATION REPORT
I. IDENTIFYING INFORMATION
body text
II. ALLEGATIONS
more body
III. METHODOLOGY
IV. RECOMMENDATION
`
	got := HeadingSignature(text)
	want := []string{
		"I. IDENTIFYING INFORMATION",
		"II. ALLEGATION(S)",
		"III. METHODOLOGY",
		"IV. RECOMMENDATION(S)",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d headings %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHeadingSignatureSingularPluralMerge(t *testing.T) {
	a := HeadingSignature("III. ALLEGATIONS\n")
	b := HeadingSignature("III. ALLEGATION\n")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("got %v and %v, want one heading each", a, b)
	}
	if a[0] != b[0] {
		t.Errorf("signatures differ: %q vs %q", a[0], b[0])
	}
}

func TestHeadingSignatureTruncation(t *testing.T) {
	got := HeadingSignature("II. EXPLANATION OF THE COMPLAINT AND RELATED FINDINGS\n")
	if len(got) != 1 {
		t.Fatalf("got %v, want one heading", got)
	}
	if got[0] != "II. EXPLANATION OF THE COMPLAINT" {
		t.Errorf("heading = %q, want first four words", got[0])
	}
}

func TestHeadingSignatureNoHeadings(t *testing.T) {
	if got := HeadingSignature("plain prose without sections"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func sirDoc(sha, headings string) types.Document {
	return types.Document{
		SHA256: sha,
		Pages:  []string{"SPECIAL INVESTIGATION REPORT\n" + headings},
	}
}

func TestSurveyorTallyAndRareFlagging(t *testing.T) {
	s := NewSurveyor()
	common := "I. IDENTIFYING INFORMATION\nII. METHODOLOGY\n"
	rare := "I. IDENTIFYING INFORMATION\nII. INTAKE SUMMARY\n"
	for i := 0; i < 200; i++ {
		s.Add(sirDoc(fmt.Sprintf("sha%03d", i), common))
	}
	s.Add(sirDoc("rare-sha", rare))
	s.Add(types.Document{SHA256: "skip", Pages: []string{"renewal cover letter"}})

	res := s.Result()
	if res.Analyzed != 201 {
		t.Errorf("analyzed = %d, want 201", res.Analyzed)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	if len(res.Signatures) != 2 {
		t.Fatalf("got %d signatures, want 2", len(res.Signatures))
	}
	if res.Signatures[0].Count != 200 {
		t.Errorf("most frequent count = %d, want 200", res.Signatures[0].Count)
	}
	if !strings.Contains(res.Signatures[0].Signature, "METHODOLOGY") {
		t.Errorf("most frequent signature = %q", res.Signatures[0].Signature)
	}
	if len(res.Rare) != 1 {
		t.Fatalf("got %d rare signatures, want 1", len(res.Rare))
	}
	if res.Rare[0].ExampleSHA != "rare-sha" {
		t.Errorf("rare example = %q, want rare-sha", res.Rare[0].ExampleSHA)
	}
}

func TestSurveyorEmpty(t *testing.T) {
	res := NewSurveyor().Result()
	if res.Analyzed != 0 || len(res.Signatures) != 0 || len(res.Rare) != 0 {
		t.Errorf("empty surveyor result = %+v", res)
	}
}
