// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// QueryOptions selects allegations from the index. Query runs full-text
// search over allegation, investigation and conclusion text; the other
// fields filter structurally. All filters combine with AND.
type QueryOptions struct {
	// Query is an FTS5 match expression. Empty means no text search.
	Query string

	// Violation restricts to one derived status ("Yes", "No", "Unknown").
	Violation string

	// InvestigationNo restricts to one report by investigation number.
	InvestigationNo string

	// SHA restricts to one report by content hash.
	SHA string

	// RuleCode restricts to reports citing the given rule or policy code.
	RuleCode string

	// MaxResults caps the result count; 0 means the store default.
	MaxResults int
}

// QueryResult is one allegation hit with enough report identity to locate
// the source document.
type QueryResult struct {
	SHA256          string                 `json:"sha256" yaml:"sha256"`
	FileName        string                 `json:"filename,omitempty" yaml:"filename,omitempty"`
	InvestigationNo string                 `json:"investigation_no" yaml:"investigation_no"`
	LicenseeName    string                 `json:"licensee_name,omitempty" yaml:"licensee_name,omitempty"`
	Allegation      types.AllegationRecord `json:"allegation" yaml:"allegation"`
}

// Retrieve returns allegations matching opts. With a text query, results
// order by FTS rank; otherwise by investigation number and ordinal.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		conditions []string
		args       []any
	)

	base := `SELECT r.sha256, r.filename, r.investigation_no, r.licensee_name,
		a.ordinal, a.allegation, a.investigation, a.analysis, a.conclusion, a.violation
		FROM allegations a
		JOIN reports r ON r.sha256 = a.sha256`

	orderBy := `ORDER BY r.investigation_no, a.ordinal`

	if opts.Query != "" {
		base += ` JOIN allegations_fts ON allegations_fts.rowid = a.rowid`
		conditions = append(conditions, `allegations_fts MATCH ?`)
		args = append(args, opts.Query)
		orderBy = `ORDER BY allegations_fts.rank`
	}
	if opts.Violation != "" {
		conditions = append(conditions, `a.violation = ?`)
		args = append(args, opts.Violation)
	}
	if opts.InvestigationNo != "" {
		conditions = append(conditions, `r.investigation_no = ?`)
		args = append(args, opts.InvestigationNo)
	}
	if opts.SHA != "" {
		conditions = append(conditions, `r.sha256 = ?`)
		args = append(args, opts.SHA)
	}
	if opts.RuleCode != "" {
		conditions = append(conditions, `EXISTS (SELECT 1 FROM citations c WHERE c.sha256 = r.sha256 AND c.code = ?)`)
		args = append(args, opts.RuleCode)
	}

	query := base
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ` + orderBy + ` LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying allegations: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr        QueryResult
			violation string
		)
		err := rows.Scan(&qr.SHA256, &qr.FileName, &qr.InvestigationNo, &qr.LicenseeName,
			&qr.Allegation.Ordinal, &qr.Allegation.Allegation, &qr.Allegation.Investigation,
			&qr.Allegation.Analysis, &qr.Allegation.Conclusion, &violation)
		if err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		qr.Allegation.Violation = types.Violation(violation)
		results = append(results, qr)
	}
	return results, rows.Err()
}

// ReportCount returns the number of indexed reports.
func (s *Store) ReportCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM reports`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return n, nil
}

// Lookup returns the indexed report row for one content hash, with its
// allegations and citations reassembled in insertion order.
func (s *Store) Lookup(ctx context.Context, sha string) (types.ParsedReport, error) {
	var (
		report                 types.ParsedReport
		variant                string
		mismatch, inconsistent int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT sha256, filename, investigation_no, license_no, variant, final_report_date,
			facility_name, licensee_name, recommendation, mismatch, inconsistent
		 FROM reports WHERE sha256 = ?`, sha,
	).Scan(&report.SHA256, &report.FileName, &report.Header.InvestigationNo,
		&report.Header.LicenseNo, &variant, &report.Header.FinalReportDate,
		&report.Header.FacilityName, &report.Header.LicenseeName,
		&report.Header.Recommendation, &mismatch, &inconsistent)
	if err == sql.ErrNoRows {
		return report, fmt.Errorf("report %s not indexed", sha)
	}
	if err != nil {
		return report, fmt.Errorf("looking up report: %w", err)
	}
	report.Variant = types.StructuralVariant(variant)
	report.Mismatch = mismatch != 0
	report.Inconsistent = inconsistent != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, allegation, investigation, analysis, conclusion, violation
		 FROM allegations WHERE sha256 = ? ORDER BY ordinal`, sha)
	if err != nil {
		return report, fmt.Errorf("loading allegations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a types.AllegationRecord
			v string
		)
		if err := rows.Scan(&a.Ordinal, &a.Allegation, &a.Investigation, &a.Analysis, &a.Conclusion, &v); err != nil {
			return report, fmt.Errorf("scanning allegation: %w", err)
		}
		a.Violation = types.Violation(v)
		report.Allegations = append(report.Allegations, a)
	}
	if err := rows.Err(); err != nil {
		return report, err
	}

	citRows, err := s.db.QueryContext(ctx,
		`SELECT code, description, conclusion, violation, mention_count, inconsistent
		 FROM citations WHERE sha256 = ? ORDER BY rowid`, sha)
	if err != nil {
		return report, fmt.Errorf("loading citations: %w", err)
	}
	defer citRows.Close()
	for citRows.Next() {
		var (
			c     types.RuleCitation
			v     string
			incon int
		)
		if err := citRows.Scan(&c.Code, &c.Description, &c.Conclusion, &v, &c.MentionCount, &incon); err != nil {
			return report, fmt.Errorf("scanning citation: %w", err)
		}
		c.Violation = types.Violation(v)
		c.Inconsistent = incon != 0
		report.Citations = append(report.Citations, c)
	}
	return report, citRows.Err()
}
