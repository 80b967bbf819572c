// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var textRunRE = regexp.MustCompile(`(<a:t(?:\s[^>]*)?>)([^<]*)(</a:t>)`)

// ReplaceText applies rules, in order, to the text of every a:t run of a
// slide part. Matches are found within a single run only. It returns the
// rewritten part and the number of replacements; data is returned unchanged
// when nothing matched.
func ReplaceText(data []byte, rules []types.Replacement) ([]byte, int) {
	total := 0
	out := textRunRE.ReplaceAllFunc(data, func(m []byte) []byte {
		sub := textRunRE.FindSubmatch(m)
		text := html.UnescapeString(string(sub[2]))
		n := 0
		for _, r := range rules {
			if r.From == "" {
				continue
			}
			if c := strings.Count(text, r.From); c > 0 {
				n += c
				text = strings.ReplaceAll(text, r.From, r.To)
			}
		}
		if n == 0 {
			return m
		}
		total += n
		return []byte(string(sub[1]) + escape(text) + string(sub[3]))
	})
	if total == 0 {
		return data, 0
	}
	return out, total
}
