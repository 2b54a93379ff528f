// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcadwell/sir-engine/internal/summary"
	"github.com/mcadwell/sir-engine/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate API summaries for reports missing one",
	Long: `Summarize walks the corpus, finds investigation reports without an
entry in the summaries CSV, and requests a natural-language summary for
each from a chat-completions API. Rows append as they complete, so an
interrupted run can simply be restarted.

The API key is read from .secrets/openrouter-api-key or the
SIR_ENGINE_API_KEY environment variable.`,
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := summaryConfigFromFlags(cmd)
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key: create .secrets/openrouter-api-key or set SIR_ENGINE_API_KEY")
	}

	backend := summary.NewOpenRouterBackend(cfg)
	sum, err := summary.UpdateSummaries(context.Background(), cfg, backend, os.Stdout)
	if err != nil {
		return err
	}
	formatStageSummary(os.Stdout, "Summarize", []countPair{
		{label: "Summarized", value: sum.Summarized},
		{label: "Skipped", value: sum.Skipped},
		{label: "Failed", value: sum.Failed, bad: true},
	})
	if sum.Failed > 0 {
		return fmt.Errorf("%d report(s) failed summarization", sum.Failed)
	}
	return nil
}

func summaryConfigFromFlags(cmd *cobra.Command) types.SummaryConfig {
	corpusPath, _ := cmd.Flags().GetString("corpus")
	summariesPath, _ := cmd.Flags().GetString("summaries")
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	limit, _ := cmd.Flags().GetInt("limit")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	apiKey, _ := cmd.Flags().GetString("api-key")

	return types.SummaryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "sir-engine/" + version,
		},
		BaseURL:       baseURL,
		Model:         model,
		APIKey:        secretDefault("openrouter-api-key", firstNonEmpty(apiKey, os.Getenv("SIR_ENGINE_API_KEY"))),
		CorpusPath:    corpusPath,
		SummariesPath: summariesPath,
		Limit:         limit,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	summarizeCmd.Flags().String("corpus", "corpus/documents.jsonl", "JSONL corpus file produced by ingest")
	summarizeCmd.Flags().String("summaries", "data/sir_summaries.csv", "append-only summaries CSV")
	summarizeCmd.Flags().String("model", "deepseek/deepseek-chat", "model identifier passed to the API")
	summarizeCmd.Flags().String("base-url", "", "chat-completions endpoint (default: OpenRouter)")
	summarizeCmd.Flags().Int("limit", 0, "maximum new summaries per run (0 = no cap)")
	summarizeCmd.Flags().Duration("timeout", 3*time.Minute, "per-request HTTP timeout")
	summarizeCmd.Flags().String("api-key", "", "API key (overrides secrets and environment)")

	rootCmd.AddCommand(summarizeCmd)
}
