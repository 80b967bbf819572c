// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache implements the content-addressed conversion cache: a table
// mapping each presentation path to the SHA3-256 digest of its content at the
// last successful PDF conversion. The table lives in a JSON object inside the
// scanned directory and decides which files are handed to the converter.
package cache

import (
	"bytes"
	"crypto/sha3"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const (
	// FileName is the cache file kept inside the input directory.
	FileName = ".powerpoint-automation.json"

	// chunkSize bounds the read buffer used while hashing.
	chunkSize = 4096

	indent = "    "

	// fileMode applies to a cache file written for the first time.
	fileMode fs.FileMode = 0o644

	// Bytes that are not valid UTF-8 are stored as the lone low surrogates
	// U+DC80..U+DCFF, so a path round-trips byte for byte.
	surrogateLow  = 0xdc80
	surrogateHigh = 0xdcff
)

// Table maps file identities (paths as supplied by the caller) to content
// digests. Keys keep their insertion order so the saved file diffs cleanly.
// A Table is owned by a single run and is not safe for concurrent use.
type Table struct {
	paths   []string
	digests map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{digests: make(map[string]string)}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.paths)
}

// Paths returns the entry keys in insertion order.
func (t *Table) Paths() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Digest returns the stored digest for path.
func (t *Table) Digest(path string) (string, bool) {
	d, ok := t.digests[path]
	return d, ok
}

// Record inserts or overwrites the entry for path. An overwritten key keeps
// its original position.
func (t *Table) Record(path, digest string) error {
	if path == "" {
		return ErrEmptyIdentity
	}
	if _, ok := t.digests[path]; !ok {
		t.paths = append(t.paths, path)
	}
	t.digests[path] = digest
	return nil
}

// Matches reports whether the table holds an entry for path equal to digest.
// The empty sentinel digest never matches.
func (t *Table) Matches(path, digest string) bool {
	if digest == "" {
		return false
	}
	stored, ok := t.digests[path]
	return ok && stored == digest
}

// NeedsConversion fingerprints path and reports whether it differs from the
// recorded digest. Files without an entry always need conversion.
func (t *Table) NeedsConversion(fsys afero.Fs, path string) (bool, error) {
	digest, err := Fingerprint(fsys, path)
	if err != nil {
		return false, err
	}
	return !t.Matches(path, digest), nil
}

// Load reads the table stored at path. A missing file yields an empty table.
// A file that is not a JSON object of strings yields ErrCorruptCache; the
// caller decides whether to abort or start over.
func Load(fsys afero.Fs, path string) (*Table, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, fmt.Errorf("reading cache %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrCorruptCache, path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: %s does not hold a JSON object", ErrCorruptCache, path)
	}

	t := NewTable()
	var (
		bad    bool
		badKey string
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad, badKey = true, key.String()
			return false
		}
		// Record only fails on an empty key; such an entry can never match a scanned file.
		_ = t.Record(decodeKey(key), value.String())
		return true
	})
	if bad {
		return nil, fmt.Errorf("%w: %s: value for %q is not a string", ErrCorruptCache, path, badKey)
	}
	return t, nil
}

// Save writes the table to path as an indented JSON object, replacing any
// previous content atomically.
func (t *Table) Save(fsys afero.Fs, path string) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}
	data = pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: indent})

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), ".powerpoint-automation-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary cache file: %w", err)
	}
	tmpName := tmp.Name()
	mode := fileMode
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := fsys.Chmod(tmpName, mode); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("setting mode of cache %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("writing cache %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("closing cache %s: %w", path, err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("replacing cache %s: %w", path, err)
	}
	return nil
}

// MarshalJSON encodes the table as a compact JSON object in insertion order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range t.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeKey(p)
		if err != nil {
			return nil, fmt.Errorf("encoding cache key %q: %w", p, err)
		}
		val, err := json.Marshal(t.digests[p])
		if err != nil {
			return nil, fmt.Errorf("encoding digest for %q: %w", p, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeKey quotes path as a JSON string. Each byte outside valid UTF-8 is
// written as the escape of a lone low surrogate.
func encodeKey(path string) ([]byte, error) {
	if utf8.ValidString(path) {
		return json.Marshal(path)
	}
	var buf bytes.Buffer
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(path); {
		r, size := utf8.DecodeRuneInString(path[i:])
		if r != utf8.RuneError || size != 1 {
			i += size
			continue
		}
		if err := writeQuoted(&buf, path[start:i]); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `\u%04x`, surrogateLow-0x80+int(path[i]))
		i++
		start = i
	}
	if err := writeQuoted(&buf, path[start:]); err != nil {
		return nil, err
	}
	buf.WriteByte('"')
	return buf.Bytes(), nil
}

// writeQuoted appends the JSON escaping of s without surrounding quotes.
func writeQuoted(buf *bytes.Buffer, s string) error {
	if s == "" {
		return nil
	}
	q, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(q[1 : len(q)-1])
	return nil
}

// decodeKey reverses encodeKey. Keys without surrogate escapes decode as
// ordinary JSON strings.
func decodeKey(key gjson.Result) string {
	raw := key.Raw
	if len(raw) < 2 || !strings.Contains(strings.ToLower(raw), `\udc`) {
		return key.String()
	}
	body := raw[1 : len(raw)-1]

	var out strings.Builder
	start := 0
	afterHigh := false
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			afterHigh = false
			i++
			continue
		}
		if i+1 < len(body) && body[i+1] == 'u' && i+6 <= len(body) {
			v, err := strconv.ParseUint(body[i+2:i+6], 16, 16)
			if err == nil && v >= surrogateLow && v <= surrogateHigh && !afterHigh {
				out.WriteString(unquote(body[start:i]))
				out.WriteByte(byte(v - surrogateLow + 0x80))
				i += 6
				start = i
				continue
			}
			afterHigh = err == nil && v >= 0xd800 && v <= 0xdbff
			i += 6
			continue
		}
		afterHigh = false
		i += 2
	}
	out.WriteString(unquote(body[start:]))
	return out.String()
}

func unquote(s string) string {
	if s == "" {
		return ""
	}
	return gjson.Parse(`"` + s + `"`).String()
}

// Fingerprint returns the lowercase hex SHA3-256 digest of the file at path.
// It returns "" without error when path does not name an existing regular
// file; an existing file that cannot be read yields ErrUnreadableFile.
func Fingerprint(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}

	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}
	defer f.Close()

	h := sha3.New256()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
