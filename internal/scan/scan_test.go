// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, name := range []string{
		"b.pptx",
		"A.PPTX",
		"c.PpTx",
		"~$b.pptx",
		"notes.txt",
		"slides.ppt",
		"archive.pptx.bak",
		".powerpoint-automation.json",
	} {
		require.NoError(t, afero.WriteFile(fsys, "/deck/"+name, []byte("x"), 0o644))
	}
	require.NoError(t, fsys.MkdirAll("/deck/folder.pptx", 0o755))

	got, err := List(fsys, "/deck")
	require.NoError(t, err)
	assert.Equal(t, []string{"/deck/A.PPTX", "/deck/b.pptx", "/deck/c.PpTx"}, got)
}

func TestList_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	write := func(path string) {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	write(filepath.Join(dir, "plain.pptx"))
	write(filepath.Join(elsewhere, "shared.pptx"))
	require.NoError(t, os.Mkdir(filepath.Join(elsewhere, "folder"), 0o755))

	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "shared.pptx"), filepath.Join(dir, "linked.pptx")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "folder"), filepath.Join(dir, "dirlink.pptx")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "gone.pptx"), filepath.Join(dir, "dangling.pptx")))

	got, err := List(afero.NewOsFs(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "linked.pptx"),
		filepath.Join(dir, "plain.pptx"),
	}, got)
}

func TestList_MissingDirectory(t *testing.T) {
	_, err := List(afero.NewMemMapFs(), "/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope")
}

func TestList_Empty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/empty", 0o755))

	got, err := List(fsys, "/empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSkipSet(t *testing.T) {
	skip := NewSkipSet([]string{"  Lecture01 ", "LECTURE03.pptx", "", "   "})

	tests := []struct {
		path string
		want bool
	}{
		{path: "/deck/lecture01.pptx", want: true},
		{path: "/deck/Lecture01.PPTX", want: true},
		{path: "/deck/lecture03.pptx", want: true},
		{path: "/deck/lecture02.pptx", want: false},
		{path: "/deck/lecture01-extra.pptx", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, skip.Matches(tt.path))
		})
	}
	assert.Len(t, skip, 2)
}

func TestSkipSet_Empty(t *testing.T) {
	assert.False(t, NewSkipSet(nil).Matches("/deck/a.pptx"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "a", Stem("/deck/a.pptx"))
	assert.Equal(t, "a.out", Stem("/deck/a.out.pptx"))
	assert.Equal(t, "noext", Stem("noext"))
}
