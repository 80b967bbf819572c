// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/powerpoint-automation/internal/pptx/pptxtest"
)

var (
	slideXML    = pptxtest.SlideXML
	textShape   = pptxtest.TextShape
	para        = pptxtest.Para
	run         = pptxtest.Run
	styledRun   = pptxtest.StyledRun
	picture     = pptxtest.Picture
	group       = pptxtest.Group
	deckEntries = pptxtest.DeckEntries
)

const (
	imageRed  = pptxtest.ImageRed
	imageBlue = pptxtest.ImageBlue
)

type entry = pptxtest.Entry

func writeZip(t *testing.T, entries []entry) string {
	t.Helper()
	return pptxtest.WriteZip(t, filepath.Join(t.TempDir(), "deck.pptx"), entries)
}

func openDeck(t *testing.T, slides ...string) (*Package, string) {
	t.Helper()
	path := writeZip(t, deckEntries(slides...))
	p, err := Open(path)
	require.NoError(t, err)
	return p, path
}

func zipNames(t *testing.T, path string) ([]string, map[string]uint16) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	methods := map[string]uint16{}
	for _, f := range zr.File {
		names = append(names, f.Name)
		methods[f.Name] = f.Method
	}
	return names, methods
}
