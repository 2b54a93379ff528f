// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns a directory of scanned report PDFs into the
// append-only JSONL corpus the rest of the pipeline reads. Documents are
// identified by content hash, so re-running ingestion only touches files
// that have not been seen.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// FileSHA256 returns the hex content hash of a file, streaming so large
// scans do not load into memory.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ExtractPages returns the plain text of a PDF, one string per page.
// A page whose text cannot be decoded contributes an empty string so page
// numbering stays aligned with the source document.
func ExtractPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
