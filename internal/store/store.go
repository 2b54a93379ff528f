// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed reports in SQLite and builds a retrieval
// index over their allegation text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/pkg/types"
)

const (
	parsedDir = "parsed"
	indexDir  = "index"
	dbFile    = "reports.db"
)

// Store manages the report index SQLite database.
type Store struct {
	db         *sql.DB
	reportsDir string
	maxResults int
}

// NewStore opens or creates the report index at reportsDir/index/reports.db,
// creating the schema when absent.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ReportsDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		reportsDir: cfg.ReportsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			sha256 TEXT PRIMARY KEY,
			filename TEXT,
			investigation_no TEXT,
			license_no TEXT,
			variant TEXT,
			final_report_date TEXT,
			facility_name TEXT,
			licensee_name TEXT,
			recommendation TEXT,
			mismatch INTEGER NOT NULL DEFAULT 0,
			inconsistent INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_investigation ON reports(investigation_no)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_license ON reports(license_no)`,
		`CREATE TABLE IF NOT EXISTS allegations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sha256 TEXT NOT NULL REFERENCES reports(sha256),
			ordinal INTEGER NOT NULL,
			allegation TEXT,
			investigation TEXT,
			analysis TEXT,
			conclusion TEXT,
			violation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_allegations_sha ON allegations(sha256)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sha256 TEXT NOT NULL REFERENCES reports(sha256),
			code TEXT NOT NULL,
			description TEXT,
			conclusion TEXT,
			violation TEXT,
			mention_count INTEGER NOT NULL DEFAULT 1,
			inconsistent INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_sha ON citations(sha256)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_code ON citations(code)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			sha256 TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='allegations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE allegations_fts USING fts5(allegation, investigation, conclusion, content=allegations, content_rowid=rowid)`,
			`CREATE TRIGGER allegations_ai AFTER INSERT ON allegations BEGIN
				INSERT INTO allegations_fts(rowid, allegation, investigation, conclusion)
				VALUES (new.rowid, new.allegation, new.investigation, new.conclusion);
			END`,
			`CREATE TRIGGER allegations_ad AFTER DELETE ON allegations BEGIN
				INSERT INTO allegations_fts(allegations_fts, rowid, allegation, investigation, conclusion)
				VALUES('delete', old.rowid, old.allegation, old.investigation, old.conclusion);
			END`,
			`CREATE TRIGGER allegations_au AFTER UPDATE ON allegations BEGIN
				INSERT INTO allegations_fts(allegations_fts, rowid, allegation, investigation, conclusion)
				VALUES('delete', old.rowid, old.allegation, old.investigation, old.conclusion);
				INSERT INTO allegations_fts(rowid, allegation, investigation, conclusion)
				VALUES (new.rowid, new.allegation, new.investigation, new.conclusion);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an index run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of report files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads parsed-report YAML files from reportsDir/parsed/ and
// populates the database. File modification times drive incremental
// updates: unchanged files are skipped, changed ones re-indexed.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	dir := filepath.Join(s.reportsDir, parsedDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading parsed directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		sha := strings.TrimSuffix(entry.Name(), ".yaml")
		filePath := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sha, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE sha256 = ?`, sha,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sha, err)
			summary.Failed++
			continue
		}

		var report types.ParsedReport
		if err := yaml.Unmarshal(data, &report); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", sha, err)
			summary.Failed++
			continue
		}

		if err := s.ingestReport(ctx, report, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sha, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d allegations, %d citations)\n", sha, len(report.Allegations), len(report.Citations))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d allegations, %d citations)\n", sha, len(report.Allegations), len(report.Citations))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestReport(ctx context.Context, report types.ParsedReport, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM allegations WHERE sha256 = ?`, report.SHA256); err != nil {
			return fmt.Errorf("deleting old allegations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE sha256 = ?`, report.SHA256); err != nil {
			return fmt.Errorf("deleting old citations: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (sha256, filename, investigation_no, license_no, variant,
			final_report_date, facility_name, licensee_name, recommendation, mismatch, inconsistent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sha256) DO UPDATE SET
			filename=excluded.filename, investigation_no=excluded.investigation_no,
			license_no=excluded.license_no, variant=excluded.variant,
			final_report_date=excluded.final_report_date, facility_name=excluded.facility_name,
			licensee_name=excluded.licensee_name, recommendation=excluded.recommendation,
			mismatch=excluded.mismatch, inconsistent=excluded.inconsistent`,
		report.SHA256, report.FileName, report.Header.InvestigationNo, report.Header.LicenseNo,
		string(report.Variant), report.Header.FinalReportDate, report.Header.FacilityName,
		report.Header.LicenseeName, report.Header.Recommendation,
		boolToInt(report.Mismatch), boolToInt(report.Inconsistent),
	)
	if err != nil {
		return fmt.Errorf("upserting report: %w", err)
	}

	allegStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO allegations (sha256, ordinal, allegation, investigation, analysis, conclusion, violation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing allegation insert: %w", err)
	}
	defer allegStmt.Close()

	for _, a := range report.Allegations {
		_, err := allegStmt.ExecContext(ctx,
			report.SHA256, a.Ordinal, a.Allegation, a.Investigation, a.Analysis, a.Conclusion, string(a.Violation))
		if err != nil {
			return fmt.Errorf("inserting allegation %d: %w", a.Ordinal, err)
		}
	}

	citStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (sha256, code, description, conclusion, violation, mention_count, inconsistent)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing citation insert: %w", err)
	}
	defer citStmt.Close()

	for _, c := range report.Citations {
		_, err := citStmt.ExecContext(ctx,
			report.SHA256, c.Code, c.Description, c.Conclusion, string(c.Violation),
			c.MentionCount, boolToInt(c.Inconsistent))
		if err != nil {
			return fmt.Errorf("inserting citation %s: %w", c.Code, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (sha256, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(sha256) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		report.SHA256, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
