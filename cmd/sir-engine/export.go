// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcadwell/sir-engine/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render parsed reports as CSV tables or website data",
	Long: `Export loads the parsed report files and renders them for downstream
consumers. The csv subcommand writes the three flat tables (report headers,
allegations, rule citations); the web subcommand writes the JSON files the
public website loads, grouped by facility license number.`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write output.csv, violations.csv and rules.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedDir, _ := cmd.Flags().GetString("parsed-dir")
		outDir, _ := cmd.Flags().GetString("out-dir")

		reports, err := export.LoadParsedDir(parsedDir)
		if err != nil {
			return err
		}
		if err := export.WriteCSVs(reports, outDir); err != nil {
			return err
		}
		fmt.Printf("Wrote CSV tables for %d reports to %s\n", len(reports), outDir)
		return nil
	},
}

var exportWebCmd = &cobra.Command{
	Use:   "web",
	Short: "Write facilities_data.json and facilities_summary.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedDir, _ := cmd.Flags().GetString("parsed-dir")
		outDir, _ := cmd.Flags().GetString("out-dir")

		reports, err := export.LoadParsedDir(parsedDir)
		if err != nil {
			return err
		}
		if err := export.WriteWebsiteData(reports, outDir); err != nil {
			return err
		}
		fmt.Printf("Wrote website data for %d reports to %s\n", len(reports), outDir)
		return nil
	},
}

func init() {
	exportCmd.PersistentFlags().String("parsed-dir", "reports/parsed", "directory of parsed report YAML files")

	exportCSVCmd.Flags().String("out-dir", "data/csv", "output directory for CSV files")
	exportWebCmd.Flags().String("out-dir", "data/website", "output directory for website JSON files")

	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportWebCmd)

	rootCmd.AddCommand(exportCmd)
}
