// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/powerpoint-automation/internal/gitlog"
	"github.com/pdiddy/powerpoint-automation/internal/pptx"
	"github.com/pdiddy/powerpoint-automation/internal/scan"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// Position and size of the git stamp on every slide.
var gitStamp = pptx.TextBox{
	X:        pptx.Cm(24),
	Y:        pptx.Cm(17.33),
	Width:    pptx.Cm(7),
	Height:   pptx.Cm(1),
	FontSize: 10,
}

// RemovePictures deletes pictures whose image SHA1 is in cfg.Hashes. Only
// presentations that lost a picture are written.
func (e *Editor) RemovePictures(ctx context.Context, cfg types.RemovePictureConfig) (Summary, error) {
	digests := pptx.NormalizeDigests(cfg.Hashes)
	if len(digests) == 0 {
		e.log.Info().Msg("No hashes ...")
		return Summary{}, nil
	}

	return e.each(ctx, cfg.DirectoryConfig, func(_ context.Context, file string) (bool, error) {
		pkg, err := pptx.Open(file)
		if err != nil {
			return false, err
		}
		n, err := pptx.RemovePictures(pkg, digests)
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		return true, e.write(pkg, file, cfg.InPlace, e.log.Info().Int("pictures", n))
	})
}

// StampMetadata writes authorship, classification and git dates into the
// document properties of every presentation, in place.
func (e *Editor) StampMetadata(ctx context.Context, cfg types.MetadataConfig) (Summary, error) {
	if e.git == nil {
		return Summary{}, errors.New("metadata stamping needs a git log")
	}

	return e.each(ctx, cfg.DirectoryConfig, func(ctx context.Context, file string) (bool, error) {
		pkg, err := pptx.Open(file)
		if err != nil {
			return false, err
		}
		props, err := pptx.ReadCore(pkg)
		if err != nil {
			return false, err
		}

		last, err := e.git.Last(ctx, file)
		switch {
		case errors.Is(err, gitlog.ErrNoHistory):
			e.log.Warn().Str("file", file).Msg("File has no git history")
		case err != nil:
			return false, err
		default:
			props.Version = last.Hash
			if last.Date.IsZero() {
				e.log.Warn().Str("file", file).Str("date", last.RawDate).Msg("Could not determine last change date")
			} else {
				props.Modified = last.Date
			}

			first, err := e.git.First(ctx, file)
			if err != nil {
				e.log.Warn().Err(err).Str("file", file).Msg("Could not determine creation date")
			} else {
				props.Created = first
			}
		}

		props.Author = strings.Join(cfg.Authors, ", ")
		props.Language = cfg.Language
		props.Keywords = cfg.Keywords
		props.Category = cfg.Category
		props.ContentStatus = cfg.ContentStatus

		if err := pptx.WriteCore(pkg, props); err != nil {
			return false, err
		}
		return true, e.write(pkg, file, true, e.log.Info())
	})
}

// StampGitInfo adds a "<commit date> | <short hash>" text box to every slide,
// in place.
func (e *Editor) StampGitInfo(ctx context.Context, dir types.DirectoryConfig) (Summary, error) {
	if e.git == nil {
		return Summary{}, errors.New("git stamping needs a git log")
	}

	return e.each(ctx, dir, func(ctx context.Context, file string) (bool, error) {
		last, err := e.git.Last(ctx, file)
		if err != nil {
			return false, err
		}
		pkg, err := pptx.Open(file)
		if err != nil {
			return false, err
		}

		box := gitStamp
		box.Text = fmt.Sprintf("%s | %s", last.RawDate, last.Hash)
		for _, name := range pkg.Slides() {
			data, err := pkg.Part(name)
			if err != nil {
				return false, err
			}
			out, err := pptx.AddTextBox(data, box)
			if err != nil {
				return false, fmt.Errorf("%s: %w", name, err)
			}
			pkg.SetPart(name, out)
		}
		return true, e.write(pkg, file, true, e.log.Info().Str("commit", last.Hash))
	})
}

// ReplaceText applies cfg.Rules to the text of every slide. Presentations
// without a match are not written.
func (e *Editor) ReplaceText(ctx context.Context, cfg types.ReplaceConfig) (Summary, error) {
	if len(cfg.Rules) == 0 {
		e.log.Info().Msg("No replacement rules ...")
		return Summary{}, nil
	}

	return e.each(ctx, cfg.DirectoryConfig, func(_ context.Context, file string) (bool, error) {
		pkg, err := pptx.Open(file)
		if err != nil {
			return false, err
		}
		total := 0
		for _, name := range pkg.Slides() {
			data, err := pkg.Part(name)
			if err != nil {
				return false, err
			}
			out, n := pptx.ReplaceText(data, cfg.Rules)
			if n > 0 {
				pkg.SetPart(name, out)
				total += n
			}
		}
		if total == 0 {
			return false, nil
		}
		return true, e.write(pkg, file, cfg.InPlace, e.log.Info().Int("replacements", total))
	})
}

// ExportText writes a <stem>.txt outline of every presentation into
// cfg.OutputDir.
func (e *Editor) ExportText(ctx context.Context, cfg types.TextConfig) (Summary, error) {
	if err := e.fs.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	return e.each(ctx, cfg.DirectoryConfig, func(_ context.Context, file string) (bool, error) {
		pkg, err := pptx.Open(file)
		if err != nil {
			return false, err
		}
		text, err := pptx.ExtractText(pkg)
		if err != nil {
			return false, err
		}
		out := filepath.Join(cfg.OutputDir, scan.Stem(file)+".txt")
		if err := afero.WriteFile(e.fs, out, []byte(text), 0o644); err != nil {
			return false, fmt.Errorf("writing %s: %w", out, err)
		}
		e.log.Info().Str("file", file).Str("output", out).Msg("Write file")
		return true, nil
	})
}
