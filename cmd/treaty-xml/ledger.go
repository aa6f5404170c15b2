// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/treaty-xml/internal/ledger"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the conversion ledger (list, runs, export)",
	Long: `Ledger reads the SQLite database in which convert records every
treaty it processed: source and output paths, title, provision count,
status and the run that last touched it.`,
}

// --- list subcommand ---

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded conversions",
	RunE:  runLedgerList,
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	status, err := statusFlag(cmd)
	if err != nil {
		return err
	}
	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	entries, err := led.List(cmd.Context(), status)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-9s  %-40s  %s\n", "Source", "Status", "Title", "Provisions")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
	for _, e := range entries {
		title := e.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-9s  %-40s  %d\n",
			filepath.Base(e.SourcePath), e.Status, title, e.Provisions)
	}
	fmt.Fprintf(os.Stdout, "\n%d conversions\n", len(entries))
	return nil
}

// --- runs subcommand ---

var ledgerRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List convert runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := openLedger()
		if err != nil {
			return err
		}
		defer led.Close()

		runs, err := led.Runs(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%s  %s  %d converted, %d skipped, %d failed\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Converted, r.Skipped, r.Failed)
		}
		return nil
	},
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger to YAML or JSON",
	Long: `Export writes all runs and conversions to a file next to the ledger
database (conversions.yaml or conversions.json) unless --output names one.`,
	RunE: runLedgerExport,
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	status, err := statusFlag(cmd)
	if err != nil {
		return err
	}

	led, err := openLedger()
	if err != nil {
		return err
	}
	defer led.Close()

	if output == "" {
		output = filepath.Join(filepath.Dir(viper.GetString("ledger.path")), "conversions."+format)
	}

	switch format {
	case "yaml":
		err = led.ExportYAML(cmd.Context(), output, status)
	case "json":
		err = led.ExportJSON(cmd.Context(), output, status)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", output)
	return nil
}

// --- shared helpers ---

func openLedger() (*ledger.Ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return ledger.Open(cfg.Ledger)
}

func statusFlag(cmd *cobra.Command) (types.ConversionStatus, error) {
	s, _ := cmd.Flags().GetString("status")
	switch st := types.ConversionStatus(s); st {
	case "", types.ConversionDone, types.ConversionSkipped, types.ConversionFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q: use converted, skipped, or failed", s)
	}
}

func init() {
	ledgerListCmd.Flags().String("status", "", "filter by status: converted, skipped, failed")
	ledgerListCmd.Flags().Bool("json", false, "output entries as JSON")

	ledgerExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	ledgerExportCmd.Flags().String("output", "", "export file (default: next to the ledger database)")
	ledgerExportCmd.Flags().String("status", "", "export only conversions with this status")

	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerRunsCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	rootCmd.AddCommand(ledgerCmd)
}
