// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptxtest builds small presentation packages for tests.
package pptxtest

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Image contents related from every slide as rId2 and rId3.
const (
	ImageRed  = "red-pixels"
	ImageBlue = "blue-pixels"
)

const relTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// Entry is one zip entry.
type Entry struct {
	Name   string
	Body   string
	Method uint16
}

// WriteZip writes entries, in order, to a new archive at path.
func WriteZip(t testing.TB, path string, entries []Entry) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: e.Method})
		require.NoError(t, err)
		_, err = w.Write([]byte(e.Body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// WriteDeck writes a presentation with the given slide parts to dir/name.
func WriteDeck(t testing.TB, dir, name string, slides ...string) string {
	t.Helper()
	return WriteZip(t, filepath.Join(dir, name), DeckEntries(slides...))
}

// SlideXML wraps shapes in a slide part.
func SlideXML(shapes ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		strings.Join(shapes, "") +
		`</p:spTree></p:cSld></p:sld>`
}

// TextShape is an auto shape with a text body.
func TextShape(id int, paragraphs ...string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Text %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/>%s</p:txBody></p:sp>`, id, id, strings.Join(paragraphs, ""))
}

// Para is an a:p made of runs.
func Para(runs ...string) string {
	return "<a:p>" + strings.Join(runs, "") + "</a:p>"
}

// Run is a plain text run.
func Run(text string) string {
	return `<a:r><a:rPr lang="en-US"/><a:t>` + text + `</a:t></a:r>`
}

// StyledRun is a text run with extra rPr attributes such as b="1".
func StyledRun(text, attrs string) string {
	return `<a:r><a:rPr lang="en-US" ` + attrs + `/><a:t>` + text + `</a:t></a:r>`
}

// Picture is a picture shape embedding the image related as relID.
func Picture(id int, relID string) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr/></p:pic>`, id, id, relID)
}

// Group nests shapes in a group shape.
func Group(id int, shapes ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:grpSp>`,
		id, id, strings.Join(shapes, ""))
}

// DeckEntries builds a package whose presentation lists the slides in the
// given order. Every slide relates rId2 to ImageRed and rId3 to ImageBlue.
func DeckEntries(slides ...string) []Entry {
	var (
		overrides strings.Builder
		ids       strings.Builder
		presRels  strings.Builder
		parts     []Entry
	)
	for i, body := range slides {
		n := i + 1
		name := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		fmt.Fprintf(&overrides, `<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, name)
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n+1)
		fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n+1, n)
		parts = append(parts,
			Entry{Name: name, Body: body, Method: zip.Deflate},
			Entry{Name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), Method: zip.Deflate, Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`<Relationship Id="rId2" Type="` + relTypeImage + `" Target="../media/image1.png"/>` +
				`<Relationship Id="rId3" Type="` + relTypeImage + `" Target="../media/image2.png"/>` +
				`</Relationships>`},
		)
	}

	head := []Entry{
		{Name: "[Content_Types].xml", Method: zip.Deflate, Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
			overrides.String() + `</Types>`},
		{Name: "_rels/.rels", Method: zip.Deflate, Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
			`</Relationships>`},
		{Name: "ppt/presentation.xml", Method: zip.Deflate, Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
			`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst>` + ids.String() + `</p:sldIdLst></p:presentation>`},
		{Name: "ppt/_rels/presentation.xml.rels", Method: zip.Deflate, Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + presRels.String() + `</Relationships>`},
		{Name: "ppt/media/image1.png", Method: zip.Store, Body: ImageRed},
		{Name: "ppt/media/image2.png", Method: zip.Store, Body: ImageBlue},
	}
	return append(head, parts...)
}
