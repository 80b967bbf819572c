// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

const (
	defaultCorePart = "docProps/core.xml"
	coreContentType = "application/vnd.openxmlformats-package.core-properties+xml"

	nsCore    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"

	coreTimeLayout = "2006-01-02T15:04:05Z"
)

type coreXML struct {
	Title          string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Subject        string `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Creator        string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Keywords       string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties keywords"`
	Description    string `xml:"http://purl.org/dc/elements/1.1/ description"`
	LastModifiedBy string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties lastModifiedBy"`
	Revision       string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties revision"`
	Version        string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties version"`
	Language       string `xml:"http://purl.org/dc/elements/1.1/ language"`
	Category       string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties category"`
	ContentStatus  string `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties contentStatus"`
	Created        string `xml:"http://purl.org/dc/terms/ created"`
	Modified       string `xml:"http://purl.org/dc/terms/ modified"`
}

// corePart locates the core properties part through the package
// relationships.
func (p *Package) corePart() (string, error) {
	rels, err := p.Relationships("")
	if err != nil {
		return "", err
	}
	for _, r := range rels {
		if r.Type == relTypeCoreProperties {
			return r.Resolve(""), nil
		}
	}
	return "", nil
}

// ReadCore returns the document properties. A package without a core
// properties part yields the zero value.
func ReadCore(p *Package) (types.CoreProperties, error) {
	name, err := p.corePart()
	if err != nil {
		return types.CoreProperties{}, err
	}
	if name == "" || !p.HasPart(name) {
		return types.CoreProperties{}, nil
	}
	data, _ := p.Part(name)

	var c coreXML
	if err := decode(data, &c); err != nil {
		return types.CoreProperties{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	return types.CoreProperties{
		Title:          c.Title,
		Subject:        c.Subject,
		Author:         c.Creator,
		Keywords:       c.Keywords,
		Description:    c.Description,
		LastModifiedBy: c.LastModifiedBy,
		Revision:       c.Revision,
		Version:        c.Version,
		Language:       c.Language,
		Category:       c.Category,
		ContentStatus:  c.ContentStatus,
		Created:        parseCoreTime(c.Created),
		Modified:       parseCoreTime(c.Modified),
	}, nil
}

func parseCoreTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// WriteCore replaces the document properties. Empty fields are omitted. The
// part, its content type and its package relationship are created when the
// package has none.
func WriteCore(p *Package, props types.CoreProperties) error {
	name, err := p.corePart()
	if err != nil {
		return err
	}
	if name == "" {
		name = defaultCorePart
		if _, err := p.addRelationship("", relTypeCoreProperties, name); err != nil {
			return err
		}
	}
	if err := p.addOverride(name, coreContentType); err != nil {
		return err
	}
	p.SetPart(name, marshalCore(props))
	return nil
}

func marshalCore(c types.CoreProperties) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="` + nsCore + `" xmlns:dc="` + nsDC +
		`" xmlns:dcterms="` + nsDCTerms + `" xmlns:dcmitype="http://purl.org/dc/dcmitype/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)

	element := func(tag, value string) {
		if value != "" {
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, escape(value), tag)
		}
	}
	stamp := func(tag string, t time.Time) {
		if !t.IsZero() {
			fmt.Fprintf(&b, `<%s xsi:type="dcterms:W3CDTF">%s</%s>`, tag, t.UTC().Format(coreTimeLayout), tag)
		}
	}

	element("dc:title", c.Title)
	element("dc:subject", c.Subject)
	element("dc:creator", c.Author)
	element("cp:keywords", c.Keywords)
	element("dc:description", c.Description)
	element("cp:lastModifiedBy", c.LastModifiedBy)
	element("cp:revision", c.Revision)
	element("cp:version", c.Version)
	element("dc:language", c.Language)
	element("cp:category", c.Category)
	element("cp:contentStatus", c.ContentStatus)
	stamp("dcterms:created", c.Created)
	stamp("dcterms:modified", c.Modified)

	b.WriteString("</cp:coreProperties>")
	return []byte(b.String())
}
