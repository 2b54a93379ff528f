// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus drives batch parsing: it streams the JSONL corpus through
// a bounded worker pool, folds results back into corpus order, and writes
// one YAML file per special investigation report. Parsing itself is pure,
// so documents parse concurrently while the skip and duplicate decisions
// stay sequential and reproducible.
package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/internal/sir"
	"github.com/mcadwell/sir-engine/pkg/types"
)

const defaultWorkers = 4

// Summary holds counts from one batch parse.
type Summary struct {
	Parsed     int
	Skipped    int
	Duplicates int
	Failed     int
}

// Total returns the number of corpus records considered.
func (s Summary) Total() int {
	return s.Parsed + s.Skipped + s.Duplicates + s.Failed
}

type job struct {
	index int
	doc   types.Document
}

type result struct {
	index  int
	report types.ParsedReport
	err    error
}

// Run parses every corpus document and writes one YAML file per report to
// cfg.ParsedDir. Records that are not investigation reports are skipped;
// a report whose investigation number was already seen earlier in the
// corpus is a duplicate; a document that panics the parser is counted as
// failed and the batch continues. Results are committed in corpus order,
// so reruns over the same corpus make identical decisions regardless of
// worker count.
func Run(cfg types.ParseConfig, w io.Writer) (Summary, error) {
	var sum Summary

	if err := os.MkdirAll(cfg.ParsedDir, 0o755); err != nil {
		return sum, fmt.Errorf("create parsed dir: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	jobs := make(chan job, workers)
	results := make(chan result, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- parseOne(j, cfg.Loose)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var readErr error
	go func() {
		defer close(jobs)
		index := 0
		readErr = ingest.ReadCorpus(cfg.CorpusPath, func(doc types.Document) error {
			jobs <- job{index: index, doc: doc}
			index++
			return nil
		})
	}()

	// Fold results back into corpus order before deciding skips and
	// duplicates, so the seen-investigation set evolves deterministically.
	pending := make(map[int]result)
	seen := make(map[string]bool)
	next := 0
	commit := func(r result) error {
		if r.err != nil {
			fmt.Fprintf(w, "error parsing record %d: %v\n", r.index+1, r.err)
			sum.Failed++
			return nil
		}
		report := r.report
		if !sir.IsSIR(report) {
			sum.Skipped++
			return nil
		}
		if seen[report.Header.InvestigationNo] {
			sum.Duplicates++
			return nil
		}
		seen[report.Header.InvestigationNo] = true
		if err := WriteReport(cfg.ParsedDir, report); err != nil {
			return err
		}
		sum.Parsed++
		fmt.Fprintf(w, "parsed %s: %d allegations, %d citations\n",
			report.Header.InvestigationNo, len(report.Allegations), report.RawCitationCount)
		return nil
	}

	for r := range results {
		pending[r.index] = r
		for {
			pr, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := commit(pr); err != nil {
				// Drain workers before surfacing the write error.
				for range results {
				}
				return sum, err
			}
		}
	}
	if readErr != nil {
		return sum, readErr
	}
	return sum, nil
}

// parseOne guards a single parse against panics from pathological input;
// the document is reported failed and the batch moves on.
func parseOne(j job, loose bool) (res result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = result{index: j.index, err: fmt.Errorf("parser panic: %v", rec)}
		}
	}()
	return result{index: j.index, report: sir.ParseDocument(j.doc, loose)}
}

// ParseBySHA parses the single corpus document with the given content
// hash, for inspecting one report without a batch run.
func ParseBySHA(cfg types.ParseConfig, sha string) (types.ParsedReport, error) {
	var found *types.Document
	err := ingest.ReadCorpus(cfg.CorpusPath, func(doc types.Document) error {
		if doc.SHA256 == sha {
			d := doc
			found = &d
		}
		return nil
	})
	if err != nil {
		return types.ParsedReport{}, err
	}
	if found == nil {
		return types.ParsedReport{}, fmt.Errorf("sha %s not in corpus", sha)
	}
	return sir.ParseDocument(*found, cfg.Loose), nil
}

// WriteReport writes one parsed report as <sha256>.yaml under dir.
func WriteReport(dir string, report types.ParsedReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", report.SHA256, err)
	}
	path := filepath.Join(dir, report.SHA256+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
