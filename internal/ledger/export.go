// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/treaty-xml/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Runs        []Run   `json:"runs" yaml:"runs"`
	Conversions []Entry `json:"conversions" yaml:"conversions"`
}

// ExportYAML writes the ledger contents to path as YAML. A non-empty status
// restricts the exported conversions.
func (l *Ledger) ExportYAML(ctx context.Context, path string, status types.ConversionStatus) error {
	exp, err := l.export(ctx, status)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(exp)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(path, data)
}

// ExportJSON writes the ledger contents to path as indented JSON.
func (l *Ledger) ExportJSON(ctx context.Context, path string, status types.ConversionStatus) error {
	exp, err := l.export(ctx, status)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(path, data)
}

func (l *Ledger) export(ctx context.Context, status types.ConversionStatus) (Export, error) {
	entries, err := l.List(ctx, status)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	runs, err := l.Runs(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	if runs == nil {
		runs = []Run{}
	}
	return Export{Runs: runs, Conversions: entries}, nil
}

func writeExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
