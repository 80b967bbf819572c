// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// progressBar renders conversion progress on stderr.
type progressBar struct {
	bar *progressbar.ProgressBar
}

func (p *progressBar) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *progressBar) Step(path string, status types.ConversionStatus) {
	p.bar.Describe(fmt.Sprintf("%-9s %s", status, filepath.Base(path)))
	_ = p.bar.Add(1)
}

func (p *progressBar) Finish() {
	_ = p.bar.Finish()
}
