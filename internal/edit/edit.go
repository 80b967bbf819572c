// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package edit applies batch operations to every presentation of a
// directory: picture removal, metadata and git stamps, text replacement and
// text export. A failure on one file is logged and counted; the batch moves
// on to the next file.
package edit

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/pdiddy/powerpoint-automation/internal/pptx"
	"github.com/pdiddy/powerpoint-automation/internal/scan"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// outSuffix replaces the extension of a presentation written next to its
// source.
const outSuffix = ".out.pptx"

// GitLog reports the commit history of a file.
type GitLog interface {
	Last(ctx context.Context, file string) (types.Commit, error)
	First(ctx context.Context, file string) (time.Time, error)
}

// Summary counts the outcome of a batch operation.
type Summary struct {
	Modified  int
	Unchanged int
	Failed    int
}

// Total returns the number of presentations seen.
func (s Summary) Total() int {
	return s.Modified + s.Unchanged + s.Failed
}

// HasFailures reports whether any presentation failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Editor runs batch operations over presentations found through fs. The
// presentations themselves are read and written on the OS filesystem.
type Editor struct {
	fs  afero.Fs
	log zerolog.Logger
	git GitLog
}

// New returns an Editor. git may be nil for operations that do not need it.
func New(fs afero.Fs, log zerolog.Logger, git GitLog) *Editor {
	return &Editor{fs: fs, log: log, git: git}
}

// fileFunc edits one presentation and reports whether it changed anything.
type fileFunc func(ctx context.Context, file string) (bool, error)

// each runs fn over the presentations of dir that are not skipped.
func (e *Editor) each(ctx context.Context, dir types.DirectoryConfig, fn fileFunc) (Summary, error) {
	var sum Summary

	files, err := scan.List(e.fs, dir.InputDir)
	if err != nil {
		return sum, err
	}
	skip := scan.NewSkipSet(dir.Skip)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			e.logSummary(sum)
			return sum, err
		}
		if skip.Matches(file) {
			e.log.Info().Str("file", file).Msg("Skip excluded file")
			sum.Unchanged++
			continue
		}

		e.log.Info().Str("file", file).Msg("Processing file")
		changed, err := fn(ctx, file)
		switch {
		case err != nil:
			e.log.Error().Err(err).Str("file", file).Msg("Processing failed")
			sum.Failed++
		case changed:
			sum.Modified++
		default:
			sum.Unchanged++
		}
	}

	e.logSummary(sum)
	return sum, nil
}

func (e *Editor) logSummary(sum Summary) {
	e.log.Info().
		Int("modified", sum.Modified).
		Int("unchanged", sum.Unchanged).
		Int("failed", sum.Failed).
		Int("total", sum.Total()).
		Msg("Batch summary")
}

// OutputPath is where an edited presentation is written: the source itself
// when inPlace, otherwise <stem>.out.pptx beside it.
func OutputPath(file string, inPlace bool) string {
	if inPlace {
		return file
	}
	return strings.TrimSuffix(file, filepath.Ext(file)) + outSuffix
}

// write saves pkg to OutputPath and then sends ev, which carries the
// operation's own fields.
func (e *Editor) write(pkg *pptx.Package, file string, inPlace bool, ev *zerolog.Event) error {
	target := OutputPath(file, inPlace)
	if err := pkg.Save(target); err != nil {
		ev.Discard()
		return err
	}
	msg := "Write file"
	if target == file {
		msg = "Rewrite file"
	}
	ev.Str("file", target).Msg(msg)
	return nil
}
