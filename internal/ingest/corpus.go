// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// A corpus line carries one full document, pages included, so the scanner
// needs far more than the default 64KB token limit.
const maxCorpusLine = 64 * 1024 * 1024

// LoadProcessed returns the set of content hashes already present in the
// corpus file. A missing file is an empty corpus, not an error. Lines that
// do not decode are skipped; a partial trailing line from an interrupted
// run must not block re-ingestion.
func LoadProcessed(path string) (map[string]bool, error) {
	processed := make(map[string]bool)
	err := ReadCorpus(path, func(doc types.Document) error {
		processed[doc.SHA256] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return processed, nil
}

// ReadCorpus streams the corpus file, invoking fn once per decoded
// document. Undecodable lines are skipped. fn returning an error stops the
// scan and surfaces that error.
func ReadCorpus(path string, fn func(types.Document) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), maxCorpusLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc types.Document
		if err := json.Unmarshal(line, &doc); err != nil || doc.SHA256 == "" {
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus %s: %w", path, err)
	}
	return nil
}

// AppendDocument appends one document as a JSON line, creating the corpus
// file and its directory when needed. Records are never rewritten; the
// corpus is append-only.
func AppendDocument(path string, doc types.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.SHA256, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append to corpus %s: %w", path, err)
	}
	return nil
}
