// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"testing"

	"github.com/mcadwell/sir-engine/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.StructuralVariant
	}{
		{
			"methodology second section",
			"I. IDENTIFYING INFORMATION\nII. METHODOLOGY\ndetails\nIII. RECOMMENDATION",
			types.VariantB,
		},
		{
			"investigation heading forces A",
			"II. METHODOLOGY\ndetails\nIII. INVESTIGATION\nmore",
			types.VariantA,
		},
		{
			"allegations second section",
			"I. EXPLANATION\nII. ALLEGATION(S)\nIII. METHODOLOGY",
			types.VariantA,
		},
		{
			"no headings at all",
			"plain text without numbered sections",
			types.VariantA,
		},
		{"empty", "", types.VariantA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
