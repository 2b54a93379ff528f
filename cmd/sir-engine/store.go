// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcadwell/sir-engine/internal/store"
	"github.com/mcadwell/sir-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the report index (index, retrieve, export)",
	Long: `Store manages a local SQLite index built from parsed report files.
Use subcommands to index reports, query their allegations, or export
the whole index.`,
}

// --- index subcommand ---

var storeIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest parsed reports into the index",
	Long: `Index reads parsed-report YAML files from the reports directory and
ingests them into a SQLite database with full-text search over allegation
text. Unchanged files are skipped on subsequent runs.`,
	RunE: runStoreIndex,
}

func runStoreIndex(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sum, err := s.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d report(s) failed indexing", sum.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query indexed allegations with full-text search and filters",
	Long: `Retrieve searches allegation text with FTS5 full-text search, structured
filters (violation status, investigation number, rule code), or a
combination of both. Results identify the source report by content hash
and investigation number.`,
	RunE: runStoreRetrieve,
}

func runStoreRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.Query == "" && opts.Violation == "" && opts.InvestigationNo == "" &&
		opts.SHA == "" && opts.RuleCode == "" {
		return fmt.Errorf("query or filter required: provide a search query, --violation, --investigation, --rule, or --sha")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-60s  %-9s\n",
		"Rank", "Invest. #", "Allegation", "Violation")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))

	for i, r := range results {
		allegation := r.Allegation.Allegation
		if len(allegation) > 60 {
			allegation = allegation[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-60s  %-9s\n",
			i+1, r.InvestigationNo, allegation, r.Allegation.Violation)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the report index to YAML or JSON",
	Long: `Export writes every indexed report with its allegations and citations
to reports/index/export.yaml or export.json.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	reportsDir, _ := cmd.Flags().GetString("reports-dir")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	switch format {
	case "yaml", "":
		path := filepath.Join(reportsDir, "index", "export.yaml")
		n, err := s.ExportYAML(context.Background(), path)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d reports to %s\n", n, path)
	case "json":
		path := filepath.Join(reportsDir, "index", "export.json")
		n, err := s.ExportJSON(context.Background(), path)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d reports to %s\n", n, path)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	reportsDir, _ := cmd.Flags().GetString("reports-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return store.NewStore(types.StoreConfig{
		ReportsDir: reportsDir,
		MaxResults: maxResults,
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	violation, _ := cmd.Flags().GetString("violation")
	investigation, _ := cmd.Flags().GetString("investigation")
	sha, _ := cmd.Flags().GetString("sha")
	ruleCode, _ := cmd.Flags().GetString("rule")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:           queryText,
		Violation:       violation,
		InvestigationNo: investigation,
		SHA:             sha,
		RuleCode:        ruleCode,
		MaxResults:      limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("reports-dir", "reports", "base directory for reports (contains parsed/, index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	storeRetrieveCmd.Flags().String("query", "", "full-text search query over allegation text")
	storeRetrieveCmd.Flags().String("violation", "", "filter by violation status: Yes, No, Unknown")
	storeRetrieveCmd.Flags().String("investigation", "", "filter by investigation number")
	storeRetrieveCmd.Flags().String("sha", "", "filter by report content hash")
	storeRetrieveCmd.Flags().String("rule", "", "filter to reports citing a rule code")
	storeRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	storeCmd.AddCommand(storeIndexCmd)
	storeCmd.AddCommand(storeRetrieveCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
