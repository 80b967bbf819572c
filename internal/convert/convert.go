// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs a batch PDF conversion over a directory of
// presentations, handing only new or changed files to the converter.
package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/pdiddy/powerpoint-automation/internal/cache"
	"github.com/pdiddy/powerpoint-automation/internal/scan"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// Converter transforms one presentation into a PDF inside outputDir.
// LibreOffice is the production implementation.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputDir string) error
}

// Recorder receives every converter outcome. The SQLite history store
// implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// Progress is notified as files are processed.
type Progress interface {
	Start(total int)
	Step(path string, status types.ConversionStatus)
	Finish()
}

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Excluded  int
	Failed    int
}

// Total returns the number of presentations seen.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Excluded + r.Failed
}

// HasFailures reports whether any presentation failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(s types.ConversionStatus) {
	switch s {
	case types.ConversionDone:
		r.Converted++
	case types.ConversionSkipped:
		r.Skipped++
	case types.ConversionExcluded:
		r.Excluded++
	case types.ConversionFailed:
		r.Failed++
	}
}

// Runner drives one conversion run. It owns the cache table for the duration
// of Run and is not safe for concurrent use.
type Runner struct {
	fs       afero.Fs
	conv     Converter
	log      zerolog.Logger
	history  Recorder
	progress Progress
	runID    string
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory records every converter invocation in h.
func WithHistory(h Recorder) Option {
	return func(r *Runner) { r.history = h }
}

// WithProgress reports per-file progress to p.
func WithProgress(p Progress) Option {
	return func(r *Runner) { r.progress = p }
}

// WithRunID tags history records with id.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// NewRunner returns a runner reading presentations and the cache through fs.
func NewRunner(fs afero.Fs, conv Converter, log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{fs: fs, conv: conv, log: log, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run converts every new or changed presentation in cfg.InputDir into
// cfg.OutputDir and persists the cache table. A converter failure is counted
// and the run moves on; a corrupt cache, an unreadable presentation or a
// cancelled context ends the run with an error. The table is saved in every
// case except a corrupt cache, so confirmed conversions are never repeated.
func (r *Runner) Run(ctx context.Context, cfg types.ConversionConfig) (BatchResult, error) {
	var result BatchResult

	if err := r.fs.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	cachePath := filepath.Join(cfg.InputDir, cache.FileName)
	table, err := cache.Load(r.fs, cachePath)
	if err != nil {
		return result, err
	}

	files, err := scan.List(r.fs, cfg.InputDir)
	if err != nil {
		return result, err
	}
	skip := scan.NewSkipSet(cfg.Skip)

	if r.progress != nil {
		r.progress.Start(len(files))
		defer r.progress.Finish()
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, r.finish(table, cachePath, result, err)
		}

		status, err := r.convertFile(ctx, table, skip, file, cfg.OutputDir)
		if err != nil {
			return result, r.finish(table, cachePath, result, err)
		}
		result.add(status)
		if r.progress != nil {
			r.progress.Step(file, status)
		}
	}

	return result, r.finish(table, cachePath, result, nil)
}

func (r *Runner) convertFile(ctx context.Context, table *cache.Table, skip scan.SkipSet, file, outputDir string) (types.ConversionStatus, error) {
	if skip.Matches(file) {
		r.log.Info().Str("file", file).Msg("Skip excluded file")
		return types.ConversionExcluded, nil
	}

	digest, err := cache.Fingerprint(r.fs, file)
	if err != nil {
		return types.ConversionFailed, err
	}
	if table.Matches(file, digest) {
		r.log.Info().Str("file", file).Msg("The file has not changed since the last conversion")
		return types.ConversionSkipped, nil
	}

	r.log.Info().Str("file", file).Msg("Convert to PDF")
	start := r.now()
	convErr := r.conv.Convert(ctx, file, outputDir)
	elapsed := r.now().Sub(start)

	status := types.ConversionDone
	if convErr != nil {
		status = types.ConversionFailed
		r.log.Error().Err(convErr).Str("file", file).Msg("Conversion failed")
	}
	r.recordHistory(ctx, file, digest, status, elapsed, convErr)

	if convErr != nil {
		return status, nil
	}
	if digest == "" {
		r.log.Warn().Str("file", file).Msg("File disappeared before it could be fingerprinted; not caching it")
		return status, nil
	}
	if err := table.Record(file, digest); err != nil {
		return types.ConversionFailed, err
	}
	return status, nil
}

func (r *Runner) recordHistory(ctx context.Context, file, digest string, status types.ConversionStatus, elapsed time.Duration, convErr error) {
	if r.history == nil {
		return
	}
	rec := types.ConversionRecord{
		RunID:    r.runID,
		Path:     file,
		Digest:   digest,
		Status:   status,
		Duration: elapsed,
		At:       r.now().UTC(),
	}
	if convErr != nil {
		rec.Error = convErr.Error()
	}
	// History is advisory; the JSON cache is what decides skips.
	if err := r.history.Record(context.WithoutCancel(ctx), rec); err != nil {
		r.log.Warn().Err(err).Str("file", file).Msg("Could not write conversion history")
	}
}

// finish saves the table and logs the batch summary. runErr, if any, is
// returned joined with a save failure.
func (r *Runner) finish(table *cache.Table, cachePath string, result BatchResult, runErr error) error {
	saveErr := table.Save(r.fs, cachePath)
	if saveErr != nil {
		saveErr = fmt.Errorf("saving conversion cache: %w", saveErr)
	}

	r.log.Info().
		Int("converted", result.Converted).
		Int("skipped", result.Skipped).
		Int("excluded", result.Excluded).
		Int("failed", result.Failed).
		Int("total", result.Total()).
		Msg("Batch summary")

	return errors.Join(runErr, saveErr)
}
