// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// Summary holds counts from one ingestion run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the number of PDF files considered.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// ProcessDirectory hashes every PDF under cfg.PDFDir and appends a corpus
// record for each file not yet present. A file that fails extraction is
// counted and skipped so the batch continues. Progress is reported to w.
func ProcessDirectory(cfg types.IngestConfig, w io.Writer) (Summary, error) {
	var sum Summary

	files, err := listPDFs(cfg.PDFDir)
	if err != nil {
		return sum, err
	}
	processed, err := LoadProcessed(cfg.CorpusPath)
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "found %d PDF files, %d already ingested\n", len(files), len(processed))

	for i, path := range files {
		name := filepath.Base(path)
		hash, err := FileSHA256(path)
		if err != nil {
			fmt.Fprintf(w, "[%d/%d] error %s: %v\n", i+1, len(files), name, err)
			sum.Failed++
			continue
		}
		if processed[hash] {
			sum.Skipped++
			continue
		}
		pages, err := ExtractPages(path)
		if err != nil {
			fmt.Fprintf(w, "[%d/%d] error %s: %v\n", i+1, len(files), name, err)
			sum.Failed++
			continue
		}
		doc := types.Document{
			SHA256:        hash,
			FileName:      name,
			Pages:         pages,
			DateProcessed: time.Now().Format(time.RFC3339),
		}
		if err := AppendDocument(cfg.CorpusPath, doc); err != nil {
			return sum, err
		}
		processed[hash] = true
		sum.Processed++
		fmt.Fprintf(w, "[%d/%d] ingested %s: %d pages\n", i+1, len(files), name, len(pages))
	}
	return sum, nil
}

// SpotCheck re-extracts up to limit already-ingested PDFs and compares the
// result against the stored corpus record, catching extraction drift after
// a library upgrade. It returns the number checked and mismatched.
func SpotCheck(cfg types.IngestConfig, limit int, w io.Writer) (checked, mismatched int, err error) {
	records := make(map[string]types.Document)
	err = ReadCorpus(cfg.CorpusPath, func(doc types.Document) error {
		records[doc.SHA256] = doc
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	files, err := listPDFs(cfg.PDFDir)
	if err != nil {
		return 0, 0, err
	}

	for _, path := range files {
		if limit > 0 && checked >= limit {
			break
		}
		hash, err := FileSHA256(path)
		if err != nil {
			continue
		}
		stored, ok := records[hash]
		if !ok {
			continue
		}
		pages, err := ExtractPages(path)
		if err != nil {
			continue
		}
		checked++
		if !pagesEqual(pages, stored.Pages) {
			mismatched++
			fmt.Fprintf(w, "mismatch %s (%s)\n", filepath.Base(path), hash)
		}
	}
	fmt.Fprintf(w, "spot check: %d checked, %d mismatched\n", checked, mismatched)
	return checked, mismatched, nil
}

func pagesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// listPDFs returns the sorted *.pdf files directly under dir, matching the
// extension case-insensitively.
func listPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pdf dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pdf dir %s: not a directory", dir)
	}
	lower, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	upper, err := filepath.Glob(filepath.Join(dir, "*.PDF"))
	if err != nil {
		return nil, err
	}
	files := append(lower, upper...)
	sort.Strings(files)
	return files, nil
}
