// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract text from PDFs into the append-only corpus",
	Long: `Ingest hashes every PDF under the input directory, extracts its text
page by page, and appends one JSONL record per new file to the corpus.
Files whose content hash is already in the corpus are skipped, so reruns
only pick up new documents.

With --spot-check N, up to N already-ingested PDFs are re-extracted and
compared against their stored corpus records instead, catching extraction
drift after a library upgrade.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfigFromFlags(cmd)
	spotCheck, _ := cmd.Flags().GetInt("spot-check")

	if spotCheck > 0 {
		checked, mismatched, err := ingest.SpotCheck(cfg, spotCheck, os.Stdout)
		if err != nil {
			return err
		}
		if mismatched > 0 {
			return fmt.Errorf("%d of %d spot-checked file(s) mismatched", mismatched, checked)
		}
		return nil
	}

	sum, err := ingest.ProcessDirectory(cfg, os.Stdout)
	if err != nil {
		return err
	}
	formatStageSummary(os.Stdout, "Ingest", []countPair{
		{label: "Processed", value: sum.Processed},
		{label: "Skipped", value: sum.Skipped},
		{label: "Failed", value: sum.Failed, bad: true},
	})
	if sum.Failed > 0 {
		return fmt.Errorf("%d file(s) failed ingestion", sum.Failed)
	}
	return nil
}

func ingestConfigFromFlags(cmd *cobra.Command) types.IngestConfig {
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	corpusPath, _ := cmd.Flags().GetString("corpus")
	return types.IngestConfig{
		PDFDir:     pdfDir,
		CorpusPath: corpusPath,
	}
}

func init() {
	ingestCmd.Flags().String("pdf-dir", "pdfs", "directory scanned for *.pdf files")
	ingestCmd.Flags().String("corpus", "corpus/documents.jsonl", "append-only JSONL corpus file")
	ingestCmd.Flags().Int("spot-check", 0, "re-extract up to N ingested PDFs and compare against the corpus")

	rootCmd.AddCommand(ingestCmd)
}
