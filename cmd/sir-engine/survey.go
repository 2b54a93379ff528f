// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/internal/survey"
	"github.com/mcadwell/sir-engine/pkg/types"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Tally section-heading structures across the corpus",
	Long: `Survey scans every investigation report in the corpus, extracts its
top-level section-heading sequence, and tallies how often each sequence
occurs. Rare structures (under 1% of reports) are flagged with an example
document, pointing at layouts the parser may mishandle.`,
	RunE: runSurvey,
}

func runSurvey(cmd *cobra.Command, args []string) error {
	corpusPath, _ := cmd.Flags().GetString("corpus")

	surveyor := survey.NewSurveyor()
	err := ingest.ReadCorpus(corpusPath, func(doc types.Document) error {
		surveyor.Add(doc)
		return nil
	})
	if err != nil {
		return err
	}
	result := surveyor.Result()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	rare := make(map[string]bool, len(result.Rare))
	for _, sc := range result.Rare {
		rare[sc.Signature] = true
	}

	fmt.Printf("analyzed %d reports (%d non-report documents skipped)\n\n", result.Analyzed, result.Skipped)
	for _, sc := range result.Signatures {
		marker := "  "
		if rare[sc.Signature] {
			marker = "! "
		}
		fmt.Printf("%s%5d  %5.1f%%  %s\n", marker, sc.Count, sc.Percent, sc.Signature)
		if rare[sc.Signature] && sc.ExampleSHA != "" {
			fmt.Printf("               example: %s\n", sc.ExampleSHA)
		}
	}
	return nil
}

func init() {
	surveyCmd.Flags().String("corpus", "corpus/documents.jsonl", "JSONL corpus file produced by ingest")
	surveyCmd.Flags().Bool("json", false, "output the tally as JSON")

	rootCmd.AddCommand(surveyCmd)
}
