// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcadwell/sir-engine/internal/ingest"
	"github.com/mcadwell/sir-engine/pkg/types"
)

type fakeBackend struct {
	calls    int
	err      error
	response string
}

func (f *fakeBackend) Summarize(_ context.Context, prompt string) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{
		Response:     f.response,
		InputTokens:  100,
		OutputTokens: 20,
		Duration:     50 * time.Millisecond,
	}, nil
}

func sirPages(invNo string) []string {
	return []string{
		"SPECIAL INVESTIGATION REPORT\nInvestigation #: " + invNo +
			"\nII. METHODOLOGY\n\nAPPLICABLE RULE\nR 400.1234 Supervision.\nCONCLUSION: Violation established.\nIII. RECOMMENDATION\n",
	}
}

func testConfig(t *testing.T, docs []types.Document) types.SummaryConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := types.SummaryConfig{
		CorpusPath:    filepath.Join(dir, "docs.jsonl"),
		SummariesPath: filepath.Join(dir, "sir_summaries.csv"),
	}
	for _, doc := range docs {
		require.NoError(t, ingest.AppendDocument(cfg.CorpusPath, doc))
	}
	return cfg
}

func readSummaries(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestUpdateSummaries(t *testing.T) {
	cfg := testConfig(t, []types.Document{
		{SHA256: "s1", Pages: sirPages("2024A0001")},
		{SHA256: "s2", Pages: []string{"a renewal letter, not an investigation"}},
		{SHA256: "s3", Pages: sirPages("2024A0002")},
	})
	backend := &fakeBackend{response: "Summary text."}

	var out bytes.Buffer
	sum, err := UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Summarized)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, 2, backend.calls)

	rows := readSummaries(t, cfg.SummariesPath)
	require.Len(t, rows, 3) // header + two summaries
	assert.Equal(t, csvColumns, rows[0])
	assert.Equal(t, "s1", rows[1][0])
	assert.Equal(t, "2024A0001", rows[1][1])
	assert.Equal(t, "Summary text.", rows[1][3])
	assert.Equal(t, "100", rows[1][4])

	// Second run finds everything summarized and calls nothing.
	sum, err = UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Summarized)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, 2, backend.calls)
}

func TestUpdateSummariesLimit(t *testing.T) {
	cfg := testConfig(t, []types.Document{
		{SHA256: "s1", Pages: sirPages("2024A0001")},
		{SHA256: "s2", Pages: sirPages("2024A0002")},
		{SHA256: "s3", Pages: sirPages("2024A0003")},
	})
	cfg.Limit = 1
	backend := &fakeBackend{response: "One only."}

	var out bytes.Buffer
	sum, err := UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Summarized)
	assert.Equal(t, 1, backend.calls)
}

func TestUpdateSummariesLimitStopsScan(t *testing.T) {
	cfg := testConfig(t, []types.Document{
		{SHA256: "s1", Pages: sirPages("2024A0001")},
		{SHA256: "s2", Pages: sirPages("2024A0002")},
		{SHA256: "s3", Pages: sirPages("2024A0003")},
	})
	cfg.Limit = 1
	// s3 already has a summary; with the scan cut short at the limit it is
	// never visited, so it must not show up in the skip count.
	require.NoError(t, appendRow(cfg.SummariesPath, []string{"s3", "2024A0003", "q", "r", "0", "0", "0"}))
	backend := &fakeBackend{response: "First only."}

	var out bytes.Buffer
	sum, err := UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Summarized)
	assert.Equal(t, 0, sum.Skipped)
	assert.Equal(t, 1, backend.calls)
}

func TestUpdateSummariesBackendFailure(t *testing.T) {
	cfg := testConfig(t, []types.Document{
		{SHA256: "s1", Pages: sirPages("2024A0001")},
	})
	backend := &fakeBackend{err: errors.New("api down")}

	var out bytes.Buffer
	sum, err := UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, out.String(), "api down")

	// Nothing was appended, so the file does not exist yet.
	_, statErr := os.Stat(cfg.SummariesPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateSummariesPromptIncludesDocument(t *testing.T) {
	var gotPrompt string
	backend := backendFunc(func(_ context.Context, prompt string) (Result, error) {
		gotPrompt = prompt
		return Result{Response: "ok"}, nil
	})
	cfg := testConfig(t, []types.Document{
		{SHA256: "s1", Pages: sirPages("2024A0001")},
	})

	var out bytes.Buffer
	_, err := UpdateSummaries(context.Background(), cfg, backend, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotPrompt, DefaultQuery+"\n\n"))
	assert.Contains(t, gotPrompt, "SPECIAL INVESTIGATION REPORT")
}

type backendFunc func(ctx context.Context, prompt string) (Result, error)

func (f backendFunc) Summarize(ctx context.Context, prompt string) (Result, error) {
	return f(ctx, prompt)
}
