// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the treaty-xml CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/treaty-xml/internal/logging"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log.* keys before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the treaty-xml CLI.
var rootCmd = &cobra.Command{
	Use:   "treaty-xml",
	Short: "Convert tax treaty JSON records into PLUTO XML",
	Long: `treaty-xml converts serialized tax treaty records (JSON) into
LexisNexis PLUTO namespaced XML documents, one file per treaty.

A SQLite ledger remembers what was converted so repeated runs only
reconvert treaties whose source changed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./treaty-xml.yaml or ~/.config/treaty-xml/treaty-xml.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Shared by convert and the ledger subcommands.
	rootCmd.PersistentFlags().String("ledger-path", types.DefaultPipelineConfig().Ledger.Path, "SQLite ledger database")
	_ = viper.BindPFlag("ledger.path", rootCmd.PersistentFlags().Lookup("ledger-path"))
}

// setDefaults registers every configuration key so env overrides and
// Unmarshal see them even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()
	v.SetDefault("convert.input_dir", d.Convert.InputDir)
	v.SetDefault("convert.output_dir", d.Convert.OutputDir)
	v.SetDefault("convert.workers", d.Convert.Workers)
	v.SetDefault("convert.indent", d.Convert.Indent)
	v.SetDefault("convert.declaration", d.Convert.Declaration)
	v.SetDefault("convert.force", d.Convert.Force)
	v.SetDefault("ledger.enabled", d.Ledger.Enabled)
	v.SetDefault("ledger.path", d.Ledger.Path)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.level", d.Log.Level)
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("treaty-xml")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "treaty-xml"))
		}
	}

	viper.SetEnvPrefix("TREATY_XML")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env, file and default values.
func loadConfig() (types.PipelineConfig, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
