// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/treaty-xml/internal/ledger"
	"github.com/pdiddy/treaty-xml/internal/pluto"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

// fakeConverter returns a minimal document or an error, depending on the
// input bytes.
type fakeConverter struct {
	calls atomic.Int32
	fail  map[string]error
	delay time.Duration
}

func (f *fakeConverter) Convert(data []byte) (*etree.Document, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.fail[string(data)]; ok {
		return nil, err
	}
	doc := etree.NewDocument()
	root := doc.CreateElement("tr:ch")
	root.CreateElement("lnb-leg:officialname").CreateElement("core:title").SetText(string(data))
	return doc, nil
}

// fakeLedger is an in-memory Recorder.
type fakeLedger struct {
	mu      sync.Mutex
	mods    map[string]time.Time
	entries []ledger.Entry
}

func (l *fakeLedger) Unchanged(_ context.Context, src string, mod time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.mods[src]
	return ok && m.Equal(mod), nil
}

func (l *fakeLedger) Record(_ context.Context, e ledger.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		force      bool
		wantStatus types.ConversionStatus
		wantLog    string
		wantCalls  int32
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{},
			wantStatus: types.ConversionDone,
			wantLog:    "converted: 2301",
			wantCalls:  1,
		},
		{
			name:       "skip existing output",
			converter:  &fakeConverter{},
			preCreate:  true,
			wantStatus: types.ConversionSkipped,
			wantLog:    "skipped: 2301 (already exists)",
		},
		{
			name:       "force overwrites existing output",
			converter:  &fakeConverter{},
			preCreate:  true,
			force:      true,
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
			wantCalls:  1,
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{fail: map[string]error{"treaty": errors.New("bad record")}},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:  2301 (bad record)",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeInput(t, dir, "2301.json", "treaty")
			outDir := filepath.Join(dir, "xml")
			if tt.preCreate {
				require.NoError(t, os.MkdirAll(outDir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(outDir, "2301.xml"), []byte("existing"), 0o644))
			}

			var log bytes.Buffer
			status := ConvertFile(context.Background(), tt.converter, src, outDir, Options{Force: tt.force}, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)
			assert.Equal(t, tt.wantCalls, tt.converter.calls.Load())
		})
	}
}

func TestConvertFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	var log bytes.Buffer
	status := ConvertFile(context.Background(), &fakeConverter{}, filepath.Join(dir, "nope.json"), dir, Options{}, &log)
	assert.Equal(t, types.ConversionFailed, status)
	assert.Contains(t, log.String(), "failed:  nope")
}

func TestConvertFile_WritesPLUTO(t *testing.T) {
	dir := t.TempDir()
	src := writeInput(t, dir, "friendship.json", `{
		"id": 7,
		"title": "treaty of friendship",
		"status": "In Force",
		"signatureDate": "1 January 2020",
		"articles": [{"articleNumber": "1", "articleTitle": "Scope", "articleDescription": "<p>1. applies</p>"}]
	}`)
	outDir := filepath.Join(dir, "xml")
	rec := &fakeLedger{}

	var log bytes.Buffer
	opts := Options{Write: pluto.WriteOptions{Indent: 2, Declaration: true}, Ledger: rec, RunID: "run-1"}
	status := ConvertFile(context.Background(), pluto.NewConverter(nil), src, outDir, opts, &log)
	require.Equal(t, types.ConversionDone, status, log.String())
	assert.Equal(t, "converted: friendship (1 provisions)\n", log.String())

	data, err := os.ReadFile(filepath.Join(outDir, "friendship.xml"))
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<!DOCTYPE tr:ch PUBLIC")
	assert.Contains(t, out, "<core:title>Treaty of Friendship</core:title>")

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, src, e.SourcePath)
	assert.Equal(t, filepath.Join(outDir, "friendship.xml"), e.OutputPath)
	assert.Equal(t, 7, e.TreatyID)
	assert.Equal(t, "Treaty of Friendship", e.Title)
	assert.Equal(t, 1, e.Provisions)
	assert.Equal(t, types.ConversionDone, e.Status)
	assert.Equal(t, "run-1", e.RunID)
	assert.False(t, e.SourceModTime.IsZero())
}

func TestConvertFile_LedgerDecidesSkip(t *testing.T) {
	dir := t.TempDir()
	src := writeInput(t, dir, "a.json", "a")
	outDir := filepath.Join(dir, "xml")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.xml"), []byte("old"), 0o644))

	info, err := os.Stat(src)
	require.NoError(t, err)

	t.Run("unchanged source is skipped", func(t *testing.T) {
		rec := &fakeLedger{mods: map[string]time.Time{src: info.ModTime()}}
		conv := &fakeConverter{}
		var log bytes.Buffer
		status := ConvertFile(context.Background(), conv, src, outDir, Options{Ledger: rec}, &log)
		assert.Equal(t, types.ConversionSkipped, status)
		assert.Zero(t, conv.calls.Load())
		require.Len(t, rec.entries, 1)
		assert.Equal(t, types.ConversionSkipped, rec.entries[0].Status)
	})

	t.Run("changed source is reconverted", func(t *testing.T) {
		rec := &fakeLedger{mods: map[string]time.Time{src: info.ModTime().Add(-time.Hour)}}
		conv := &fakeConverter{}
		var log bytes.Buffer
		status := ConvertFile(context.Background(), conv, src, outDir, Options{Ledger: rec}, &log)
		assert.Equal(t, types.ConversionDone, status)
		assert.EqualValues(t, 1, conv.calls.Load())
	})
}

func TestConvertFile_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeInput(t, dir, "a.json", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{}
	var log bytes.Buffer
	status := ConvertFile(ctx, conv, src, dir, Options{}, &log)
	assert.Equal(t, types.ConversionFailed, status)
	assert.Contains(t, log.String(), "context canceled")
	assert.Zero(t, conv.calls.Load())
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c"} {
		paths = append(paths, writeInput(t, dir, name+".json", name))
	}

	outDir := filepath.Join(dir, "xml")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.xml"), []byte("existing"), 0o644))

	conv := &fakeConverter{fail: map[string]error{"c": errors.New("bad json")}}

	var log bytes.Buffer
	result := ConvertBatch(context.Background(), conv, paths, outDir, Options{Workers: 2}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())

	output := log.String()
	assert.Contains(t, output, "Batch summary: 1 converted, 1 skipped, 1 failed (total: 3)")
	assert.FileExists(t, filepath.Join(outDir, "a.xml"))
	assert.NoFileExists(t, filepath.Join(outDir, "c.xml"))
}

func TestConvertBatch_OrderedOutput(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 12; i++ {
		paths = append(paths, writeInput(t, dir, fmt.Sprintf("t%02d.json", i), fmt.Sprintf("t%02d", i)))
	}

	conv := &fakeConverter{delay: time.Millisecond}
	var log bytes.Buffer
	result := ConvertBatch(context.Background(), conv, paths, filepath.Join(dir, "xml"), Options{Workers: 4}, &log)
	require.Equal(t, 12, result.Converted)

	lines := strings.Split(strings.TrimSpace(log.String()), "\n")
	require.Len(t, lines, 14)
	for i := 0; i < 12; i++ {
		assert.True(t, strings.HasPrefix(lines[i], fmt.Sprintf("converted: t%02d ", i)), lines[i])
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	var log bytes.Buffer
	result := ConvertBatch(context.Background(), &fakeConverter{}, nil, t.TempDir(), Options{}, &log)
	assert.Zero(t, result.Total())
	assert.False(t, result.HasFailures())
	assert.Contains(t, log.String(), "(total: 0)")
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "b.json", "b")
	writeInput(t, dir, "a.JSON", "a")
	writeInput(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), &fakeConverter{}, dir, filepath.Join(dir, "xml"), Options{}, &log)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)

	out := log.String()
	assert.Less(t, strings.Index(out, "converted: a "), strings.Index(out, "converted: b "))
	assert.NotContains(t, out, "notes")

	_, err = ConvertDir(context.Background(), &fakeConverter{}, filepath.Join(dir, "missing"), dir, Options{}, &log)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := types.DefaultPipelineConfig().Convert
	cfg.Force = true
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.Force)
	assert.Equal(t, pluto.WriteOptions{Indent: 2, Declaration: true}, opts.Write)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "treaty-12.xml"), OutputPath(filepath.Join("in", "treaty-12.json"), "out"))
}
