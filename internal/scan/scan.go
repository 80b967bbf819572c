// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates the presentation files of a directory and applies
// the user's skip list.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// Extension is the presentation suffix, matched case-insensitively.
	Extension = ".pptx"

	// lockPrefix marks the lock files an open editor leaves next to a deck.
	lockPrefix = "~"
)

// List returns the presentations directly inside dir, sorted by name. Each
// path is filepath.Join(dir, name); that string is the file's identity in the
// conversion cache. A symbolic link counts when its target is a regular file.
func List(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), Extension) {
			continue
		}
		if strings.HasPrefix(name, lockPrefix) {
			continue
		}
		path := filepath.Join(dir, name)
		if !isRegular(fsys, path, entry) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// isRegular follows a symbolic link entry; dangling links are left out.
func isRegular(fsys afero.Fs, path string, entry fs.FileInfo) bool {
	if entry.Mode()&fs.ModeSymlink == 0 {
		return entry.Mode().IsRegular()
	}
	target, err := fsys.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SkipSet holds presentation names that a command must leave alone.
type SkipSet map[string]struct{}

// NewSkipSet builds a set from user-supplied names. Names are trimmed and
// compared case-insensitively; a trailing .pptx is ignored.
func NewSkipSet(names []string) SkipSet {
	s := make(SkipSet, len(names))
	for _, n := range names {
		key := normalize(n)
		if strings.EqualFold(filepath.Ext(key), Extension) {
			key = strings.TrimSuffix(key, filepath.Ext(key))
		}
		if key == "" {
			continue
		}
		s[key] = struct{}{}
	}
	return s
}

// Matches reports whether the stem of path is in the set.
func (s SkipSet) Matches(path string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[normalize(Stem(path))]
	return ok
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
