// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edit

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// LoadRules reads a replacement rules file:
//
//	replacements:
//	  - from: "Winter term 2025"
//	    to: "Summer term 2026"
//
// Unknown keys are rejected. An empty file holds no rules.
func LoadRules(fs afero.Fs, path string) ([]types.Replacement, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var rules types.ReplacementRules
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	for i, r := range rules.Replacements {
		if r.From == "" {
			return nil, fmt.Errorf("rules %s: replacement %d has an empty from", path, i+1)
		}
	}
	return rules.Replacements, nil
}
