// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/convert"
	"github.com/pdiddy/powerpoint-automation/internal/history"
	"github.com/pdiddy/powerpoint-automation/internal/office"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert-presentations",
	Short: "Convert PowerPoint files to PDFs",
	Long: `Convert-presentations hands every presentation of the input directory to
LibreOffice and writes the PDFs to the output directory. A SHA3-256 digest of
each successfully converted file is kept in .powerpoint-automation.json inside
the input directory; files whose content still matches their digest are
skipped on later runs, whatever their modification time.

A failed conversion is logged and retried on the next run.`,
	RunE: runConvert,
}

func init() {
	addDirectoryFlags(convertCmd)
	convertCmd.Flags().StringP("output-directory", "o", "dist", "directory receiving the PDFs")
	convertCmd.Flags().StringP("libre-office", "L", "", "LibreOffice executable (default: platform install location)")
	convertCmd.Flags().Duration("timeout", office.DefaultTimeout, "limit for a single conversion; 0 disables it")
	convertCmd.Flags().String("history", "", "SQLite database recording every conversion (disabled when empty)")
	convertCmd.Flags().Int("retries", 0, "retry a failed conversion this many times with exponential backoff")
	convertCmd.Flags().Bool("progress", false, "show a progress bar on stderr")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	log := newLogger()

	dir, err := directoryConfig()
	if err != nil {
		return err
	}
	cfg := types.ConversionConfig{
		DirectoryConfig: dir,
		Timeout:         viper.GetDuration("timeout"),
		Retries:         viper.GetInt("retries"),
	}
	if cfg.OutputDir, err = absPath(viper.GetString("output-directory")); err != nil {
		return err
	}
	if cfg.HistoryPath, err = absPath(viper.GetString("history")); err != nil {
		return err
	}
	cfg.LibreOffice, err = office.ResolveExecutable(runtime.GOOS, viper.GetString("libre-office"), office.FileExists)
	if err != nil {
		return err
	}
	log.Debug().Str("libre_office", cfg.LibreOffice).Msg("Using LibreOffice")

	var opts []convert.Option
	if viper.GetBool("progress") {
		opts = append(opts, convert.WithProgress(&progressBar{}))
	}

	var (
		store *history.Store
		run   history.Run
	)
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run = history.Run{
			ID:        uuid.NewString(),
			InputDir:  cfg.InputDir,
			OutputDir: cfg.OutputDir,
			StartedAt: time.Now(),
		}
		if err := store.BeginRun(cmd.Context(), run); err != nil {
			return err
		}
		opts = append(opts, convert.WithHistory(store), convert.WithRunID(run.ID))
	}

	var conv convert.Converter = office.NewLibreOffice(cfg.LibreOffice, cfg.Timeout)
	if cfg.Retries > 0 {
		conv = office.WithRetries(conv, cfg.Retries, log)
	}

	runner := convert.NewRunner(afero.NewOsFs(), conv, log, opts...)
	result, runErr := runner.Run(cmd.Context(), cfg)
	if runErr == nil {
		runErr = failures(result.Failed, "conversion")
	}

	if store != nil {
		finishRun(cmd.Context(), store, run, result, runErr, log)
	}
	return runErr
}

// finishRun closes the history row of a run. History is advisory, so a
// failure here is only logged.
func finishRun(ctx context.Context, store *history.Store, run history.Run, result convert.BatchResult, runErr error, log zerolog.Logger) {
	run.FinishedAt = time.Now()
	run.Converted = result.Converted
	run.Skipped = result.Skipped
	run.Excluded = result.Excluded
	run.Failed = result.Failed
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Str("run", run.ID).Msg("Could not finish history run")
	}
}
