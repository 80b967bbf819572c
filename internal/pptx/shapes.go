// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// ShapeKind identifies the element a shape was read from.
type ShapeKind string

// Shape kinds found in a slide's shape tree.
const (
	ShapeAuto         ShapeKind = "sp"
	ShapeGroup        ShapeKind = "grpSp"
	ShapePicture      ShapeKind = "pic"
	ShapeGraphicFrame ShapeKind = "graphicFrame"
	ShapeConnector    ShapeKind = "cxnSp"
)

var shapeKinds = map[string]ShapeKind{
	"sp":           ShapeAuto,
	"grpSp":        ShapeGroup,
	"pic":          ShapePicture,
	"graphicFrame": ShapeGraphicFrame,
	"cxnSp":        ShapeConnector,
}

// Paragraph is the text of one a:p element. Line breaks are "\n".
type Paragraph struct {
	Text   string
	Bold   bool
	Italic bool
}

// Shape is one entry of a slide's shape tree.
type Shape struct {
	Kind       ShapeKind
	ID         int
	Name       string
	HasText    bool
	Paragraphs []Paragraph
	// Embed is the relationship id of a picture's image.
	Embed    string
	Children []Shape

	// byte span of the element within the slide part
	start, end int64
}

// ParseSlide reads the shape tree of a slide part.
func ParseSlide(data []byte) ([]Shape, error) {
	d := newDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no shape tree: %w", ErrNotPresentation)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing slide: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "spTree" {
			shapes, err := parseChildren(d, nil)
			if err != nil {
				return nil, fmt.Errorf("parsing slide: %w", err)
			}
			return shapes, nil
		}
	}
}

// parseChildren collects the shapes directly under the current element. When
// into is not nil, non-shape children are handed to it instead of skipped.
func parseChildren(d *xml.Decoder, into func(xml.StartElement) error) ([]Shape, error) {
	var shapes []Shape
	for {
		start := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			kind, ok := shapeKinds[t.Name.Local]
			if !ok {
				if into != nil {
					if err := into(t); err != nil {
						return nil, err
					}
					continue
				}
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			s, err := parseShape(d, kind)
			if err != nil {
				return nil, err
			}
			s.start, s.end = start, d.InputOffset()
			shapes = append(shapes, s)
		case xml.EndElement:
			return shapes, nil
		}
	}
}

func parseShape(d *xml.Decoder, kind ShapeKind) (Shape, error) {
	s := Shape{Kind: kind}
	if kind == ShapeGroup {
		children, err := parseChildren(d, func(se xml.StartElement) error {
			return readProperties(d, &s, se)
		})
		s.Children = children
		return s, err
	}

	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return s, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "cNvPr":
				setIdentity(&s, t)
				if err := d.Skip(); err != nil {
					return s, err
				}
			case t.Name.Local == "blip":
				s.Embed = attr(t, relNamespace, "embed")
				if err := d.Skip(); err != nil {
					return s, err
				}
			case t.Name.Local == "txBody" && kind == ShapeAuto:
				s.HasText = true
				if s.Paragraphs, err = parseTextBody(d); err != nil {
					return s, err
				}
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return s, nil
			}
			depth--
		}
	}
}

// readProperties handles the non-shape children of a group, picking up the
// group's own identity.
func readProperties(d *xml.Decoder, s *Shape, se xml.StartElement) error {
	if se.Name.Local != "nvGrpSpPr" {
		return d.Skip()
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "cNvPr" {
				setIdentity(s, t)
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func setIdentity(s *Shape, se xml.StartElement) {
	s.ID, _ = strconv.Atoi(attr(se, "", "id"))
	s.Name = attr(se, "", "name")
}

func parseTextBody(d *xml.Decoder) ([]Paragraph, error) {
	var paras []Paragraph
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			p, err := parseParagraph(d)
			if err != nil {
				return nil, err
			}
			paras = append(paras, p)
		case xml.EndElement:
			return paras, nil
		}
	}
}

// parseParagraph reads one a:p. The paragraph is bold (italic) when its
// default run properties say so or when every text run is bold (italic).
func parseParagraph(d *xml.Decoder) (Paragraph, error) {
	var (
		text                 strings.Builder
		runs                 int
		boldRuns, italicRuns int
		defBold, defItalic   bool
		inText               bool
		depth                int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return Paragraph{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "r", "fld":
				runs++
			case "rPr":
				if flag(attr(t, "", "b")) {
					boldRuns++
				}
				if flag(attr(t, "", "i")) {
					italicRuns++
				}
			case "defRPr":
				defBold = flag(attr(t, "", "b"))
				defItalic = flag(attr(t, "", "i"))
			case "br":
				text.WriteByte('\n')
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				return Paragraph{
					Text:   text.String(),
					Bold:   defBold || (runs > 0 && boldRuns == runs),
					Italic: defItalic || (runs > 0 && italicRuns == runs),
				}, nil
			}
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		}
	}
}

func attr(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

func flag(v string) bool {
	return v == "1" || v == "true"
}
