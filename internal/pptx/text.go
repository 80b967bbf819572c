// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"
	"strings"
)

const outlineIndent = "    "

// ExtractText renders every slide as an outline of START/END markers with
// the text of each shape. Bold paragraphs are wrapped in ** and italic ones
// in _.
func ExtractText(p *Package) (string, error) {
	var b strings.Builder
	for i, name := range p.Slides() {
		data, err := p.Part(name)
		if err != nil {
			return "", err
		}
		shapes, err := ParseSlide(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(&b, "START: slide %d\n", i)
		for j, s := range shapes {
			writeShape(&b, j, s, 1)
		}
		fmt.Fprintf(&b, "END: slide %d\n\n", i)
	}
	return b.String(), nil
}

func writeShape(b *strings.Builder, n int, s Shape, level int) {
	indent := strings.Repeat(outlineIndent, level)
	inner := indent + outlineIndent

	fmt.Fprintf(b, "%sSTART: shape %d\n", indent, n)
	if s.HasText {
		for _, p := range s.Paragraphs {
			t := strings.ReplaceAll(p.Text, "\n", "\n"+inner)
			if p.Bold && t != "" {
				t = "**" + t + "**"
			}
			if p.Italic && t != "" {
				t = "_" + t + "_"
			}
			b.WriteString(inner + t + "\n")
		}
	}
	for i, c := range s.Children {
		writeShape(b, i, c, level+1)
	}
	fmt.Fprintf(b, "%sEND: shape %d\n", indent, n)
}
