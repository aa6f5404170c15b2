// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/treaty-xml/internal/convert"
	"github.com/pdiddy/treaty-xml/internal/ledger"
	"github.com/pdiddy/treaty-xml/internal/pluto"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert treaty JSON files to PLUTO XML",
	Long: `Convert reads treaty records (JSON) and writes one PLUTO XML document
per record to the output directory. With no arguments every *.json file in
the input directory is converted.

Existing outputs are kept unless --force is given or the ledger shows that
the source changed since its last conversion.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := convert.OptionsFromConfig(cfg.Convert)
	opts.Log = logger

	ctx := cmd.Context()
	var led *ledger.Ledger
	if cfg.Ledger.Enabled {
		led, err = ledger.Open(cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		runID, err := led.BeginRun(ctx)
		if err != nil {
			return err
		}
		opts.Ledger = led
		opts.RunID = runID
		logger.Debug("ledger run started", zap.String("run_id", runID), zap.String("path", cfg.Ledger.Path))
	}

	c := pluto.NewConverter(logger)

	var result convert.BatchResult
	if len(args) > 0 {
		result = convert.ConvertBatch(ctx, c, args, cfg.Convert.OutputDir, opts, os.Stdout)
	} else {
		result, err = convert.ConvertDir(ctx, c, cfg.Convert.InputDir, cfg.Convert.OutputDir, opts, os.Stdout)
		if err != nil {
			return err
		}
	}

	if led != nil {
		if err := led.FinishRun(ctx, opts.RunID, result.Converted, result.Skipped, result.Failed); err != nil {
			logger.Warn("finishing ledger run", zap.Error(err))
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d treaty file(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("input-dir", types.DefaultPipelineConfig().Convert.InputDir, "directory of treaty JSON files")
	convertCmd.Flags().String("output-dir", types.DefaultPipelineConfig().Convert.OutputDir, "directory for PLUTO XML output")
	convertCmd.Flags().Int("workers", 4, "number of files converted concurrently")
	convertCmd.Flags().Int("indent", 2, "spaces per nesting level (0 = compact)")
	convertCmd.Flags().Bool("declaration", true, "write the XML declaration")
	convertCmd.Flags().Bool("force", false, "reconvert files whose output already exists")
	convertCmd.Flags().Bool("no-ledger", false, "do not read or record the conversion ledger")

	for key, flag := range map[string]string{
		"convert.input_dir":   "input-dir",
		"convert.output_dir":  "output-dir",
		"convert.workers":     "workers",
		"convert.indent":      "indent",
		"convert.declaration": "declaration",
		"convert.force":       "force",
	} {
		_ = viper.BindPFlag(key, convertCmd.Flags().Lookup(flag))
	}

	convertCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if off, _ := cmd.Flags().GetBool("no-ledger"); off {
			viper.Set("ledger.enabled", false)
		}
	}

	rootCmd.AddCommand(convertCmd)
}
