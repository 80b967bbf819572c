// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptx reads and rewrites PowerPoint OOXML packages. A Package holds
// every zip entry in memory; edits replace whole parts and Save writes the
// archive back with the original entry order and compression methods.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"golang.org/x/net/html/charset"
)

const presentationPart = "ppt/presentation.xml"

var (
	// ErrPartNotFound is returned when a named part is not in the package.
	ErrPartNotFound = errors.New("part not found")
	// ErrNotPresentation is returned for archives or parts that lack the
	// structure of a presentation.
	ErrNotPresentation = errors.New("not a presentation")
)

var slidePartRE = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Package is an opened .pptx file.
type Package struct {
	parts []*part
	index map[string]int
}

// Open reads the whole package at path into memory.
func Open(path string) (*Package, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	p := &Package{index: make(map[string]int, len(zr.File))}
	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s in %s: %w", f.Name, path, err)
		}
		p.index[f.Name] = len(p.parts)
		p.parts = append(p.parts, &part{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     data,
		})
	}
	if !p.HasPart(presentationPart) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotPresentation)
	}
	return p, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// HasPart reports whether the package contains the named part.
func (p *Package) HasPart(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Part returns the content of the named part.
func (p *Package) Part(name string) ([]byte, error) {
	i, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}
	return p.parts[i].data, nil
}

// SetPart replaces the content of a part, appending it when new.
func (p *Package) SetPart(name string, data []byte) {
	if i, ok := p.index[name]; ok {
		p.parts[i].data = data
		return
	}
	p.index[name] = len(p.parts)
	p.parts = append(p.parts, &part{name: name, method: zip.Deflate, data: data})
}

// Slides returns the slide part names in presentation order. The order comes
// from the slide id list of the presentation part; when that cannot be
// resolved the slide parts are ordered by their number.
func (p *Package) Slides() []string {
	if names, err := p.orderedSlides(); err == nil && len(names) > 0 {
		return names
	}

	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for _, pt := range p.parts {
		m := slidePartRE.FindStringSubmatch(pt.name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, numbered{n, pt.name})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

func (p *Package) orderedSlides() ([]string, error) {
	data, err := p.Part(presentationPart)
	if err != nil {
		return nil, err
	}
	var pres presentationXML
	if err := decode(data, &pres); err != nil {
		return nil, err
	}
	rels, err := p.Relationships(presentationPart)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels))
	for _, r := range rels {
		targets[r.ID] = r.Resolve(presentationPart)
	}

	names := make([]string, 0, len(pres.SlideIDs))
	for _, s := range pres.SlideIDs {
		name, ok := targets[s.RelID]
		if !ok || !p.HasPart(name) {
			return nil, fmt.Errorf("slide relationship %s: %w", s.RelID, ErrPartNotFound)
		}
		names = append(names, name)
	}
	return names, nil
}

// Save writes the package to path through a temporary file in the same
// directory, so a failed write leaves the previous file intact.
func (p *Package) Save(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range p.parts {
		hdr := &zip.FileHeader{Name: pt.name, Method: pt.method, Modified: pt.modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("writing %s: %w", pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return fmt.Errorf("writing %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}

	// Writing through a symbolic link replaces its target, not the link.
	mode := os.FileMode(0o644)
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
		if info, err := os.Stat(target); err == nil {
			mode = info.Mode().Perm()
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func newDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d
}

func decode(data []byte, v any) error {
	return newDecoder(data).Decode(v)
}
