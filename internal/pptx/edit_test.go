// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

func TestReplaceText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rules []types.Replacement
		want  string
		count int
	}{
		{
			name:  "single run",
			input: `<a:t>Winter term 2025</a:t>`,
			rules: []types.Replacement{{From: "2025", To: "2026"}},
			want:  `<a:t>Winter term 2026</a:t>`,
			count: 1,
		},
		{
			name:  "rules apply in order",
			input: `<a:t>a</a:t><a:t xml:space="preserve">a a</a:t>`,
			rules: []types.Replacement{{From: "a", To: "b"}, {From: "b", To: "c"}},
			want:  `<a:t>c</a:t><a:t xml:space="preserve">c c</a:t>`,
			count: 6,
		},
		{
			name:  "entities are matched as text and re-escaped",
			input: `<a:t>Q&amp;A</a:t>`,
			rules: []types.Replacement{{From: "Q&A", To: "<Q & A>"}},
			want:  `<a:t>&lt;Q &amp; A&gt;</a:t>`,
			count: 1,
		},
		{
			name:  "no match leaves data untouched",
			input: `<a:t>Q&amp;A</a:t>`,
			rules: []types.Replacement{{From: "zzz", To: "y"}},
			want:  `<a:t>Q&amp;A</a:t>`,
		},
		{
			name:  "empty from is ignored",
			input: `<a:t>x</a:t>`,
			rules: []types.Replacement{{From: "", To: "y"}},
			want:  `<a:t>x</a:t>`,
		},
		{
			name:  "text outside runs is not touched",
			input: `<p:cNvPr name="2025"/><a:t>2025</a:t>`,
			rules: []types.Replacement{{From: "2025", To: "2026"}},
			want:  `<p:cNvPr name="2025"/><a:t>2026</a:t>`,
			count: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := ReplaceText([]byte(tt.input), tt.rules)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestRemovePictures(t *testing.T) {
	p, path := openDeck(t,
		slideXML(textShape(2, para(run("Logo"))), picture(3, "rId2"), picture(4, "rId3"), picture(5, "rId2")),
		slideXML(picture(2, "rId3")),
	)

	n, err := RemovePictures(p, NormalizeDigests([]string{"  " + strings.ToUpper(ImageDigest([]byte(imageRed))) + " "}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := p.Part("ppt/slides/slide1.xml")
	require.NoError(t, err)
	shapes, err := ParseSlide(data)
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.Equal(t, ShapeAuto, shapes[0].Kind)
	assert.Equal(t, 4, shapes[1].ID)

	require.NoError(t, p.Save(path))
	reopened, err := Open(path)
	require.NoError(t, err)
	second, err := reopened.Part("ppt/slides/slide2.xml")
	require.NoError(t, err)
	assert.Contains(t, string(second), `r:embed="rId3"`)
	assert.True(t, reopened.HasPart("ppt/media/image1.png"), "image parts stay")
}

func TestRemovePictures_NothingMatches(t *testing.T) {
	p, _ := openDeck(t, slideXML(picture(3, "rId2")))
	before, _ := p.Part("ppt/slides/slide1.xml")

	n, err := RemovePictures(p, NormalizeDigests([]string{"deadbeef"}))
	require.NoError(t, err)
	assert.Zero(t, n)
	after, _ := p.Part("ppt/slides/slide1.xml")
	assert.True(t, bytes.Equal(before, after))

	n, err = RemovePictures(p, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemovePictures_OnlyTopLevel(t *testing.T) {
	p, _ := openDeck(t, slideXML(group(2, picture(3, "rId2"))))
	n, err := RemovePictures(p, NormalizeDigests([]string{ImageDigest([]byte(imageRed))}))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNormalizeDigests(t *testing.T) {
	got := NormalizeDigests([]string{"ABC", " def ", "", "abc"})
	assert.Equal(t, map[string]struct{}{"abc": {}, "def": {}}, got)
}

func TestCore_CreateAndRead(t *testing.T) {
	p, path := openDeck(t, slideXML())

	props, err := ReadCore(p)
	require.NoError(t, err)
	assert.Equal(t, types.CoreProperties{}, props)

	created := time.Date(2022, time.March, 1, 10, 0, 0, 0, time.UTC)
	modified := time.Date(2024, time.May, 2, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	want := types.CoreProperties{
		Author:        "Ada Lovelace, Alan Turing",
		Version:       "abc1234",
		Language:      "English",
		Keywords:      "Security",
		Category:      "Lecture slides",
		ContentStatus: "final",
		Title:         "Threats & Risks",
		Created:       created,
		Modified:      modified,
	}
	require.NoError(t, WriteCore(p, want))
	require.NoError(t, WriteCore(p, want))
	require.NoError(t, p.Save(path))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := ReadCore(reopened)
	require.NoError(t, err)
	assert.Equal(t, want.Author, got.Author)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Language, got.Language)
	assert.Equal(t, want.Keywords, got.Keywords)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.ContentStatus, got.ContentStatus)
	assert.True(t, created.Equal(got.Created))
	assert.True(t, modified.Equal(got.Modified))

	ct, err := reopened.Part(contentTypesPart)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(ct), `PartName="/docProps/core.xml"`))

	rels, err := reopened.Relationships("")
	require.NoError(t, err)
	var coreRels int
	for _, r := range rels {
		if r.Type == relTypeCoreProperties {
			coreRels++
			assert.Equal(t, "rId2", r.ID)
		}
	}
	assert.Equal(t, 1, coreRels)
}

func TestCore_ExistingPart(t *testing.T) {
	entries := deckEntries(slideXML())
	entries = append(entries, entry{Name: "docProps/core.xml", Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<cp:coreProperties xmlns:cp="` + nsCore + `" xmlns:dc="` + nsDC + `" xmlns:dcterms="` + nsDCTerms + `" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>Intro</dc:title><dc:creator>someone</dc:creator><dcterms:created xsi:type="dcterms:W3CDTF">not a date</dcterms:created>` +
		`</cp:coreProperties>`})
	for i := range entries {
		if entries[i].Name == "_rels/.rels" {
			entries[i].Body = strings.Replace(entries[i].Body, "</Relationships>",
				`<Relationship Id="rId7" Type="`+relTypeCoreProperties+`" Target="docProps/core.xml"/></Relationships>`, 1)
		}
	}
	p, err := Open(writeZip(t, entries))
	require.NoError(t, err)

	props, err := ReadCore(p)
	require.NoError(t, err)
	assert.Equal(t, "Intro", props.Title)
	assert.Equal(t, "someone", props.Author)
	assert.True(t, props.Created.IsZero())

	props.Author = "someone else"
	require.NoError(t, WriteCore(p, props))
	rels, err := p.Relationships("")
	require.NoError(t, err)
	assert.Len(t, rels, 2, "existing relationship reused")

	again, err := ReadCore(p)
	require.NoError(t, err)
	assert.Equal(t, "Intro", again.Title)
	assert.Equal(t, "someone else", again.Author)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, EMU(8640000), Cm(24))
	assert.Equal(t, EMU(6238800), Cm(17.33))
	assert.Equal(t, EMU(127000), Pt(10))
}

func TestAddTextBox(t *testing.T) {
	slide := []byte(slideXML(textShape(2, para(run("Body"))), group(7, textShape(9, para(run("x"))))))

	out, err := AddTextBox(slide, TextBox{
		X: Cm(24), Y: Cm(17.33), Width: Cm(7), Height: Cm(1),
		FontSize: 10,
		Text:     "2024-05-02T12:30:00+02:00 | abc1234",
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `<a:off x="8640000" y="6238800"/>`)
	assert.Contains(t, string(out), `sz="1000"`)

	shapes, err := ParseSlide(out)
	require.NoError(t, err)
	require.Len(t, shapes, 3)
	box := shapes[2]
	assert.Equal(t, 10, box.ID)
	assert.Equal(t, "TextBox 9", box.Name)
	require.Len(t, box.Paragraphs, 1)
	assert.Equal(t, "2024-05-02T12:30:00+02:00 | abc1234", box.Paragraphs[0].Text)
}

func TestAddTextBox_Escapes(t *testing.T) {
	out, err := AddTextBox([]byte(slideXML()), TextBox{Text: "a < b & c"})
	require.NoError(t, err)
	shapes, err := ParseSlide(out)
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Equal(t, "a < b & c", shapes[0].Paragraphs[0].Text)
	assert.Equal(t, 2, shapes[0].ID)
	assert.NotContains(t, string(out), "sz=")
}

func TestAddTextBox_NoShapeTree(t *testing.T) {
	_, err := AddTextBox([]byte(`<p:sld/>`), TextBox{Text: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotPresentation))
}
