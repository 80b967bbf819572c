// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/powerpoint-automation/internal/history"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded conversion runs",
	Long: `History lists the conversion runs recorded with convert-presentations
--history, newest first. With --file it lists the individual converter
invocations for one presentation instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("history", "", "SQLite history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of rows")
	historyCmd.Flags().String("file", "", "show the conversions of this presentation")
	historyCmd.Flags().String("status", "", "with --file: only conversions with this status (converted, failed)")
	historyCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	path, err := absPath(viper.GetString("history"))
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("history database required: pass --history or set history in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("history database: %w", err)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	format := viper.GetString("format")
	limit := viper.GetInt("limit")

	if file := viper.GetString("file"); file != "" {
		if file, err = filepath.Abs(file); err != nil {
			return err
		}
		recs, err := store.Conversions(cmd.Context(), history.Filter{
			Path:   file,
			Status: types.ConversionStatus(viper.GetString("status")),
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		return writeHistory(os.Stdout, format, recs, func(w io.Writer) { conversionTable(w, recs) })
	}

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return writeHistory(os.Stdout, format, runs, func(w io.Writer) { runTable(w, runs) })
}

func writeHistory(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		table(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use table, json or yaml", format)
	}
}

func runTable(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-19s  %9s  %7s  %8s  %6s  %s\n",
		"Run", "Started", "Converted", "Skipped", "Excluded", "Failed", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %9d  %7d  %8d  %6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Converted, r.Skipped, r.Excluded, r.Failed, r.InputDir)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func conversionTable(w io.Writer, recs []types.ConversionRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return
	}
	fmt.Fprintf(w, "%-19s  %-9s  %10s  %-16s  %s\n", "At", "Status", "Duration", "Digest", "Error")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range recs {
		digest := r.Digest
		if len(digest) > 16 {
			digest = digest[:13] + "..."
		}
		fmt.Fprintf(w, "%-19s  %-9s  %10s  %-16s  %s\n",
			r.At.Local().Format(time.DateTime), r.Status, r.Duration.Round(time.Millisecond), digest, r.Error)
	}
	fmt.Fprintf(w, "\n%d conversions\n", len(recs))
}
