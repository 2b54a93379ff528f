// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/internal/sir"
	"github.com/mcadwell/sir-engine/pkg/types"
)

// csvColumns is the summaries file schema. The file is append-only, so
// the column set must stay stable across runs.
var csvColumns = []string{
	"sha256",
	"investigation_no",
	"query",
	"response",
	"input_tokens",
	"output_tokens",
	"duration_ms",
}

// errLimitReached stops the corpus scan once cfg.Limit summaries were
// attempted; it never escapes UpdateSummaries.
var errLimitReached = errors.New("summary limit reached")

// RunSummary holds counts from one summarization run.
type RunSummary struct {
	Summarized int
	Skipped    int
	Failed     int
}

// UpdateSummaries walks the corpus, finds investigation reports without an
// entry in the summaries CSV, and requests one summary each from backend.
// Rows append as they complete, so an interrupted run loses nothing.
// cfg.Limit caps how many new summaries one run requests (0 = no cap).
func UpdateSummaries(ctx context.Context, cfg types.SummaryConfig, backend Backend, w io.Writer) (RunSummary, error) {
	var sum RunSummary

	done, err := loadSummarized(cfg.SummariesPath)
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "%d reports already summarized\n", len(done))

	query := DefaultQuery

	err = ingest.ReadCorpus(cfg.CorpusPath, func(doc types.Document) error {
		if cfg.Limit > 0 && sum.Summarized+sum.Failed >= cfg.Limit {
			return errLimitReached
		}
		if done[doc.SHA256] {
			sum.Skipped++
			return nil
		}
		report := sir.ParseDocument(doc, false)
		if !sir.IsSIR(report) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		prompt := query + "\n\n" + strings.Join(doc.Pages, "\n\n")
		result, err := backend.Summarize(ctx, prompt)
		if err != nil {
			fmt.Fprintf(w, "error summarizing %s: %v\n", doc.SHA256, err)
			sum.Failed++
			return nil
		}

		row := []string{
			doc.SHA256,
			report.Header.InvestigationNo,
			query,
			result.Response,
			strconv.Itoa(result.InputTokens),
			strconv.Itoa(result.OutputTokens),
			strconv.FormatInt(result.Duration.Milliseconds(), 10),
		}
		if err := appendRow(cfg.SummariesPath, row); err != nil {
			return err
		}
		done[doc.SHA256] = true
		sum.Summarized++
		fmt.Fprintf(w, "summarized %s (%s): %d+%d tokens\n",
			doc.SHA256, report.Header.InvestigationNo, result.InputTokens, result.OutputTokens)
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return sum, err
	}

	fmt.Fprintf(w, "\nsummarized: %d, skipped: %d, failed: %d\n", sum.Summarized, sum.Skipped, sum.Failed)
	return sum, nil
}

// loadSummarized returns the content hashes already present in the
// summaries CSV. A missing file means nothing is summarized yet.
func loadSummarized(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening summaries file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	done := make(map[string]bool)
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading summaries file: %w", err)
		}
		if first {
			first = false
			continue // header
		}
		if len(record) > 0 && record[0] != "" {
			done[record[0]] = true
		}
	}
	return done, nil
}

// appendRow appends one record to the summaries CSV, writing the header
// first when the file is new.
func appendRow(path string, row []string) error {
	info, err := os.Stat(path)
	newFile := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening summaries file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(csvColumns); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing summary row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
