// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	relsNamespace         = "http://schemas.openxmlformats.org/package/2006/relationships"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	contentTypesPart      = "[Content_Types].xml"
)

// Relationship is one entry of a part's .rels file.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Resolve returns the package part name the relationship points at, relative
// to the part that owns it. The empty source stands for the package itself.
func (r Relationship) Resolve(source string) string {
	if strings.HasPrefix(r.Target, "/") {
		return strings.TrimPrefix(r.Target, "/")
	}
	return path.Join(path.Dir(source), r.Target)
}

type relationshipsXML struct {
	Relationships []Relationship `xml:"Relationship"`
}

// relsPart names the relationships part of source, "_rels/.rels" for the
// package itself.
func relsPart(source string) string {
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// Relationships returns the relationships owned by source. A part without a
// .rels file has none.
func (p *Package) Relationships(source string) ([]Relationship, error) {
	name := relsPart(source)
	if !p.HasPart(name) {
		return nil, nil
	}
	data, _ := p.Part(name)
	var rels relationshipsXML
	if err := decode(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return rels.Relationships, nil
}

// addRelationship appends a relationship to source's .rels part, creating it
// when missing, and returns the new relationship id.
func (p *Package) addRelationship(source, relType, target string) (string, error) {
	rels, err := p.Relationships(source)
	if err != nil {
		return "", err
	}
	used := make(map[string]bool, len(rels))
	for _, r := range rels {
		used[r.ID] = true
	}
	id := ""
	for n := len(rels) + 1; ; n++ {
		id = "rId" + strconv.Itoa(n)
		if !used[id] {
			break
		}
	}

	entry := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, escape(relType), escape(target))
	name := relsPart(source)
	data, err := p.Part(name)
	if err != nil {
		data = []byte(xml.Header + `<Relationships xmlns="` + relsNamespace + `"></Relationships>`)
	}
	updated, err := insertBefore(data, "</Relationships>", entry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	p.SetPart(name, updated)
	return id, nil
}

// addOverride registers a content type for a single part.
func (p *Package) addOverride(partName, contentType string) error {
	data, err := p.Part(contentTypesPart)
	if err != nil {
		return err
	}
	if bytes.Contains(data, []byte(`PartName="/`+partName+`"`)) {
		return nil
	}
	entry := fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, escape(partName), escape(contentType))
	updated, err := insertBefore(data, "</Types>", entry)
	if err != nil {
		return fmt.Errorf("%s: %w", contentTypesPart, err)
	}
	p.SetPart(contentTypesPart, updated)
	return nil
}

// insertBefore splices s in front of the last occurrence of closing.
func insertBefore(data []byte, closing, s string) ([]byte, error) {
	i := bytes.LastIndex(data, []byte(closing))
	if i < 0 {
		return nil, fmt.Errorf("missing %s: %w", closing, ErrNotPresentation)
	}
	out := make([]byte, 0, len(data)+len(s))
	out = append(out, data[:i]...)
	out = append(out, s...)
	return append(out, data[i:]...), nil
}

// escape makes s safe for XML text and attribute values.
func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
