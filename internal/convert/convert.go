// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs treaty JSON files through a Converter and writes one
// PLUTO XML file per input, reporting a status line for each file.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/treaty-xml/internal/ledger"
	"github.com/pdiddy/treaty-xml/internal/pluto"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

// Converter turns one serialized treaty record into a PLUTO document.
// pluto.Converter is the production implementation.
type Converter interface {
	Convert(data []byte) (*etree.Document, error)
}

// Recorder is the part of the ledger the batch stage needs. A nil Recorder
// disables incremental skipping and bookkeeping.
type Recorder interface {
	Unchanged(ctx context.Context, sourcePath string, modTime time.Time) (bool, error)
	Record(ctx context.Context, e ledger.Entry) error
}

// Options controls a conversion run.
type Options struct {
	Workers int
	Force   bool
	Write   pluto.WriteOptions
	Ledger  Recorder
	RunID   string
	Log     *zap.Logger
}

// OptionsFromConfig maps the convert stage configuration onto Options.
func OptionsFromConfig(cfg types.ConversionConfig) Options {
	return Options{
		Workers: cfg.Workers,
		Force:   cfg.Force,
		Write: pluto.WriteOptions{
			Indent:      cfg.Indent,
			Declaration: cfg.Declaration,
		},
	}
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(s types.ConversionStatus) {
	switch s {
	case types.ConversionDone:
		r.Converted++
	case types.ConversionSkipped:
		r.Skipped++
	case types.ConversionFailed:
		r.Failed++
	}
}

// OutputPath returns the XML path written for src under outDir.
func OutputPath(src, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(outDir, base+".xml")
}

// ConvertFile converts the JSON file at src and writes the document to
// outDir/<base>.xml. An existing output is kept unless opts.Force is set or
// the ledger reports that src changed since it was last converted.
func ConvertFile(ctx context.Context, c Converter, src, outDir string, opts Options, w io.Writer) types.ConversionStatus {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	outPath := OutputPath(src, outDir)

	entry := ledger.Entry{SourcePath: src, OutputPath: outPath, RunID: opts.RunID}
	finish := func(status types.ConversionStatus, err error) types.ConversionStatus {
		switch status {
		case types.ConversionDone:
			fmt.Fprintf(w, "converted: %s (%d provisions)\n", base, entry.Provisions)
		case types.ConversionSkipped:
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
		case types.ConversionFailed:
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			entry.Error = err.Error()
		}
		if opts.Ledger != nil {
			entry.Status = status
			if rerr := opts.Ledger.Record(ctx, entry); rerr != nil {
				log.Warn("recording conversion in ledger", zap.String("source", src), zap.Error(rerr))
			}
		}
		return status
	}

	if err := ctx.Err(); err != nil {
		return finish(types.ConversionFailed, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return finish(types.ConversionFailed, err)
	}
	entry.SourceModTime = info.ModTime()

	if !opts.Force && fileExists(outPath) && unchanged(ctx, opts, src, info.ModTime(), log) {
		return finish(types.ConversionSkipped, nil)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return finish(types.ConversionFailed, err)
	}

	doc, err := c.Convert(data)
	if err != nil {
		return finish(types.ConversionFailed, err)
	}
	sum := pluto.Summarize(doc)
	entry.Title = sum.Title
	entry.Provisions = sum.Provisions
	entry.TreatyID = treatyID(data)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return finish(types.ConversionFailed, err)
	}

	var buf bytes.Buffer
	if err := pluto.Write(&buf, doc, opts.Write); err != nil {
		return finish(types.ConversionFailed, err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return finish(types.ConversionFailed, err)
	}

	return finish(types.ConversionDone, nil)
}

// unchanged reports whether an existing output may be kept. Without a ledger
// any existing output is kept.
func unchanged(ctx context.Context, opts Options, src string, modTime time.Time, log *zap.Logger) bool {
	if opts.Ledger == nil {
		return true
	}
	same, err := opts.Ledger.Unchanged(ctx, src, modTime)
	if err != nil {
		log.Warn("checking ledger, reconverting", zap.String("source", src), zap.Error(err))
		return false
	}
	return same
}

// ConvertBatch converts paths with up to opts.Workers files in flight. Status
// lines and the summary are written to w in input order.
func ConvertBatch(ctx context.Context, c Converter, paths []string, outDir string, opts Options, w io.Writer) BatchResult {
	outputs := make([]bytes.Buffer, len(paths))
	statuses := make([]types.ConversionStatus, len(paths))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			statuses[i] = ConvertFile(ctx, c, p, outDir, opts, &outputs[i])
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	for i := range paths {
		w.Write(outputs[i].Bytes())
		result.add(statuses[i])
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertDir converts every *.json file in inputDir, in lexical order.
func ConvertDir(ctx context.Context, c Converter, inputDir, outDir string, opts Options, w io.Writer) (BatchResult, error) {
	paths, err := ListInputs(inputDir)
	if err != nil {
		return BatchResult{}, err
	}
	return ConvertBatch(ctx, c, paths, outDir, opts, w), nil
}

// ListInputs returns the sorted *.json files directly under dir.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// treatyID pulls the record id for the ledger. Records without one report 0.
func treatyID(data []byte) int {
	var rec struct {
		ID int `json:"id"`
	}
	_ = json.Unmarshal(data, &rec)
	return rec.ID
}
