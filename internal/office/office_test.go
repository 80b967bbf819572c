// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns a configured response.
type mockExecutor struct {
	calls   [][]string
	runFunc func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, stdout, stderr)
	}
	return nil
}

func existsIn(paths ...string) func(string) bool {
	set := map[string]bool{}
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestResolveExecutable(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		override string
		exists   func(string) bool
		want     string
		wantErr  bool
	}{
		{
			name:   "linux default",
			goos:   "linux",
			exists: existsIn("/usr/bin/libreoffice"),
			want:   "/usr/bin/libreoffice",
		},
		{
			name:   "linux falls back to soffice",
			goos:   "linux",
			exists: existsIn("/usr/bin/soffice"),
			want:   "/usr/bin/soffice",
		},
		{
			name:   "macOS bundle",
			goos:   "darwin",
			exists: existsIn("/Applications/LibreOffice.app/Contents/MacOS/soffice"),
			want:   "/Applications/LibreOffice.app/Contents/MacOS/soffice",
		},
		{
			name:    "linux path ignored on macOS",
			goos:    "darwin",
			exists:  existsIn("/usr/bin/libreoffice"),
			wantErr: true,
		},
		{
			name:     "override wins over default",
			goos:     "linux",
			override: "/opt/lo/soffice",
			exists:   existsIn("/usr/bin/libreoffice", "/opt/lo/soffice"),
			want:     "/opt/lo/soffice",
		},
		{
			name:     "missing override is an error",
			goos:     "linux",
			override: "/opt/lo/soffice",
			exists:   existsIn("/usr/bin/libreoffice"),
			wantErr:  true,
		},
		{
			name:    "unknown platform",
			goos:    "plan9",
			exists:  existsIn(),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveExecutable(tt.goos, tt.override, tt.exists)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrExecutableNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidatesIsACopy(t *testing.T) {
	c := Candidates("linux")
	require.NotEmpty(t, c)
	c[0] = "/tampered"
	assert.Equal(t, "/usr/bin/libreoffice", Candidates("linux")[0])
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	assert.True(t, FileExists(bin))
	assert.False(t, FileExists(dir), "directories are not executables")
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

// writesPDF emulates a successful soffice run by creating the output file.
func writesPDF(_ context.Context, _ string, args []string, _, _ io.Writer) error {
	outDir := args[len(args)-1]
	return os.WriteFile(OutputPath(args[3], outDir), []byte("%PDF"), 0o644)
}

func TestConvert(t *testing.T) {
	out := t.TempDir()
	exec := &mockExecutor{runFunc: writesPDF}
	lo := &LibreOffice{bin: "/usr/bin/libreoffice", exec: exec}

	err := lo.Convert(context.Background(), "/deck/a.pptx", out)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{
		"/usr/bin/libreoffice",
		"--headless", "--convert-to", "pdf",
		"/deck/a.pptx",
		"--print-to-file",
		"--outdir", out,
	}, exec.calls[0])
	assert.FileExists(t, filepath.Join(out, "a.pdf"))
}

func TestConvert_CleanExitWithoutPDF(t *testing.T) {
	tests := []struct {
		name  string
		stale bool
	}{
		{name: "no PDF at all"},
		{name: "stale PDF from an earlier run", stale: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			if tt.stale {
				require.NoError(t, os.WriteFile(filepath.Join(out, "a.pdf"), []byte("%PDF old"), 0o644))
			}
			exec := &mockExecutor{
				runFunc: func(_ context.Context, _ string, _ []string, _, stderr io.Writer) error {
					_, _ = io.WriteString(stderr, "Error: source file could not be loaded\n")
					return nil
				},
			}
			lo := &LibreOffice{bin: "soffice", exec: exec}

			err := lo.Convert(context.Background(), "/deck/a.pptx", out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoOutput))
			assert.Contains(t, err.Error(), "/deck/a.pptx")
			assert.Contains(t, err.Error(), "could not be loaded")
		})
	}
}

func TestConvert_OverwritesStalePDF(t *testing.T) {
	out := t.TempDir()
	pdf := filepath.Join(out, "a.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF old"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(pdf, old, old))

	lo := &LibreOffice{bin: "soffice", exec: &mockExecutor{runFunc: writesPDF}}
	require.NoError(t, lo.Convert(context.Background(), "/deck/a.pptx", out))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/out", "Lecture 1.pdf"), OutputPath("/deck/Lecture 1.pptx", "/out"))
	assert.Equal(t, filepath.Join("/out", "a.b.pdf"), OutputPath("/deck/a.b.PPTX", "/out"))
}

func TestConvert_FailureIncludesStderr(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(_ context.Context, _ string, _ []string, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "Error: source file could not be loaded\n")
			return errors.New("exit status 1")
		},
	}
	lo := &LibreOffice{bin: "soffice", exec: exec}

	err := lo.Convert(context.Background(), "/deck/a.pptx", "/out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/deck/a.pptx")
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "could not be loaded")
}

func TestConvert_Timeout(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(ctx context.Context, _ string, _ []string, _, _ io.Writer) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	lo := &LibreOffice{bin: "soffice", timeout: 10 * time.Millisecond, exec: exec}

	err := lo.Convert(context.Background(), "/deck/a.pptx", "/out")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), "10ms")
}

func TestConvert_MissingExecutable(t *testing.T) {
	lo := NewLibreOffice(filepath.Join(t.TempDir(), "no-such-soffice"), time.Second)

	err := lo.Convert(context.Background(), "/deck/a.pptx", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-soffice")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "", tail("  \n"))
	long := strings.Repeat("x", stderrTail+10)
	got := tail(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Len(t, got, stderrTail+3)
}
