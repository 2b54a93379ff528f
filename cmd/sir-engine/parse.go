// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/internal/corpus"
	"github.com/mcadwell/sir-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse corpus documents into structured report files",
	Long: `Parse reads the corpus, extracts structured fields from every special
investigation report, and writes one YAML file per report. Documents
without an investigation number are skipped; a report whose investigation
number appeared earlier in the corpus is dropped as a duplicate.

Use --sha to parse a single document and print the result instead of
running the whole batch. Use --loose to scan the entire document for rule
citations rather than the bounded section, for reports whose section
structure defeats the strict parser.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := parseConfigFromFlags(cmd)

	sha, _ := cmd.Flags().GetString("sha")
	if sha != "" {
		report, err := corpus.ParseBySHA(cfg, sha)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	sum, err := corpus.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}
	formatStageSummary(os.Stdout, "Parse", []countPair{
		{label: "Parsed", value: sum.Parsed},
		{label: "Skipped", value: sum.Skipped},
		{label: "Duplicates", value: sum.Duplicates},
		{label: "Failed", value: sum.Failed, bad: true},
	})
	if sum.Failed > 0 {
		return fmt.Errorf("%d document(s) failed parsing", sum.Failed)
	}
	return nil
}

func parseConfigFromFlags(cmd *cobra.Command) types.ParseConfig {
	corpusPath, _ := cmd.Flags().GetString("corpus")
	outDir, _ := cmd.Flags().GetString("out-dir")
	workers, _ := cmd.Flags().GetInt("workers")
	loose, _ := cmd.Flags().GetBool("loose")
	return types.ParseConfig{
		CorpusPath: corpusPath,
		ParsedDir:  outDir,
		Workers:    workers,
		Loose:      loose,
	}
}

func init() {
	parseCmd.Flags().String("corpus", "corpus/documents.jsonl", "JSONL corpus file produced by ingest")
	parseCmd.Flags().String("out-dir", "reports/parsed", "output directory for parsed report YAML files")
	parseCmd.Flags().Int("workers", 0, "parse concurrency (0 = default)")
	parseCmd.Flags().Bool("loose", false, "scan the whole document for rule citations")
	parseCmd.Flags().String("sha", "", "parse one document by content hash and print it")

	rootCmd.AddCommand(parseCmd)
}
