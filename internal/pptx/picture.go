// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ImageDigest returns the lower-case hex SHA1 of an image part, the digest
// PowerPoint tooling reports for pictures.
func ImageDigest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// NormalizeDigests lower-cases and trims digests, dropping empty ones.
func NormalizeDigests(digests []string) map[string]struct{} {
	set := make(map[string]struct{}, len(digests))
	for _, d := range digests {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

// RemovePictures deletes the top-level picture shapes of every slide whose
// embedded image has a SHA1 digest in digests. Image parts are left in place.
// It returns the number of pictures removed.
func RemovePictures(p *Package, digests map[string]struct{}) (int, error) {
	if len(digests) == 0 {
		return 0, nil
	}
	removed := 0
	for _, name := range p.Slides() {
		n, err := removeSlidePictures(p, name, digests)
		if err != nil {
			return removed, fmt.Errorf("%s: %w", name, err)
		}
		removed += n
	}
	return removed, nil
}

func removeSlidePictures(p *Package, slide string, digests map[string]struct{}) (int, error) {
	data, err := p.Part(slide)
	if err != nil {
		return 0, err
	}
	shapes, err := ParseSlide(data)
	if err != nil {
		return 0, err
	}
	rels, err := p.Relationships(slide)
	if err != nil {
		return 0, err
	}
	images := make(map[string]string, len(rels))
	for _, r := range rels {
		if r.Type == relTypeImage && r.TargetMode != "External" {
			images[r.ID] = r.Resolve(slide)
		}
	}

	var cut []Shape
	for _, s := range shapes {
		if s.Kind != ShapePicture || s.Embed == "" {
			continue
		}
		target, ok := images[s.Embed]
		if !ok {
			continue
		}
		img, err := p.Part(target)
		if err != nil {
			continue
		}
		if _, ok := digests[ImageDigest(img)]; ok {
			cut = append(cut, s)
		}
	}
	if len(cut) == 0 {
		return 0, nil
	}

	sort.Slice(cut, func(i, j int) bool { return cut[i].start > cut[j].start })
	out := append([]byte(nil), data...)
	for _, s := range cut {
		out = append(out[:s.start], out[s.end:]...)
	}
	p.SetPart(slide, out)
	return len(cut), nil
}
