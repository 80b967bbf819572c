// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// EMU is the OOXML length unit, English Metric Units.
type EMU int64

const (
	emuPerCm = 360000
	emuPerPt = 12700
)

// Cm converts centimetres to EMU.
func Cm(v float64) EMU { return EMU(math.Round(v * emuPerCm)) }

// Pt converts points to EMU.
func Pt(v float64) EMU { return EMU(math.Round(v * emuPerPt)) }

// TextBox describes a single-paragraph text box.
type TextBox struct {
	X, Y, Width, Height EMU
	// FontSize in points; zero keeps the slide default.
	FontSize float64
	Text     string
}

var shapeIDRE = regexp.MustCompile(`<(?:\w+:)?cNvPr\s[^>]*?\bid="(\d+)"`)

// AddTextBox appends a text box to the end of a slide's shape tree and
// returns the rewritten part. The new shape gets an id one above the
// highest id in use on the slide.
func AddTextBox(slide []byte, box TextBox) ([]byte, error) {
	id := 0
	for _, m := range shapeIDRE.FindAllSubmatch(slide, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > id {
			id = n
		}
	}
	id++

	size := ""
	if box.FontSize > 0 {
		size = fmt.Sprintf(` sz="%d"`, int(math.Round(box.FontSize*100)))
	}
	shape := fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="none"><a:spAutoFit/></a:bodyPr><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"%s dirty="0"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, id-1, box.X, box.Y, box.Width, box.Height, size, escape(box.Text))

	out, err := insertBefore(slide, "</p:spTree>", shape)
	if err != nil {
		return nil, err
	}
	return out, nil
}
