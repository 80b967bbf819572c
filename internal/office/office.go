// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office locates the LibreOffice executable and drives it to convert
// presentations to PDF.
package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrExecutableNotFound is returned when no LibreOffice executable can be
// located for the platform and no usable override was given.
var ErrExecutableNotFound = errors.New("LibreOffice executable not found")

// ErrTimeout is returned when a conversion exceeds its time limit.
var ErrTimeout = errors.New("conversion timed out")

// ErrNoOutput is returned when LibreOffice exits cleanly without writing the
// PDF, as it does for unloadable sources or when another instance takes the
// request.
var ErrNoOutput = errors.New("no PDF written")

// DefaultTimeout bounds a single conversion when the caller does not choose one.
const DefaultTimeout = 5 * time.Minute

// stderrTail is the number of stderr bytes kept for error messages.
const stderrTail = 512

// candidates lists well-known install locations per GOOS, in preference order.
var candidates = map[string][]string{
	"linux": {
		"/usr/bin/libreoffice",
		"/usr/bin/soffice",
		"/usr/local/bin/soffice",
		"/snap/bin/libreoffice",
	},
	"darwin": {
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	},
	"windows": {
		`C:\Program Files\LibreOffice\program\soffice.exe`,
		`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	},
}

// Candidates returns the default install locations checked for goos.
func Candidates(goos string) []string {
	out := make([]string, len(candidates[goos]))
	copy(out, candidates[goos])
	return out
}

// ResolveExecutable picks the LibreOffice executable. A non-empty override
// wins but must exist; otherwise the first existing default for goos is used.
func ResolveExecutable(goos, override string, exists func(string) bool) (string, error) {
	if override != "" {
		if !exists(override) {
			return "", fmt.Errorf("%w: %s does not exist", ErrExecutableNotFound, override)
		}
		return override, nil
	}
	for _, c := range candidates[goos] {
		if exists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w on %s: pass --libre-office or set POWERPOINT_AUTOMATION_LIBRE_OFFICE", ErrExecutableNotFound, goos)
}

// FileExists reports whether path names an existing regular file.
// It is the production existence check for ResolveExecutable.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// executor abstracts command execution for testing.
type executor interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// LibreOffice converts presentations by running soffice in headless mode,
// one file per invocation.
type LibreOffice struct {
	bin     string
	timeout time.Duration
	exec    executor
}

// NewLibreOffice returns a converter for the already-resolved executable bin.
// A zero timeout lets every invocation run to completion.
func NewLibreOffice(bin string, timeout time.Duration) *LibreOffice {
	return &LibreOffice{bin: bin, timeout: timeout, exec: &osExecutor{}}
}

// Path returns the executable the converter runs.
func (l *LibreOffice) Path() string { return l.bin }

// Args returns the command line used to convert inputPath into outputDir.
func (l *LibreOffice) Args(inputPath, outputDir string) []string {
	return []string{
		"--headless",
		"--convert-to", "pdf",
		inputPath,
		"--print-to-file",
		"--outdir", outputDir,
	}
}

// OutputPath returns the PDF LibreOffice writes for inputPath.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
}

// Convert writes <outputDir>/<stem>.pdf for inputPath. It returns an error
// when the executable is missing, exits non-zero, exceeds the timeout, or
// leaves no fresh PDF behind.
func (l *LibreOffice) Convert(ctx context.Context, inputPath, outputDir string) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	pdf := OutputPath(inputPath, outputDir)
	previous, _ := os.Stat(pdf)

	var stderr bytes.Buffer
	err := l.exec.Run(ctx, l.bin, l.Args(inputPath, outputDir), io.Discard, &stderr)
	if err == nil {
		return checkOutput(inputPath, pdf, previous, stderr.String())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("converting %s: %s ran longer than %v: %w", inputPath, l.bin, l.timeout, ErrTimeout)
	}
	if msg := tail(stderr.String()); msg != "" {
		return fmt.Errorf("converting %s with %s: %w: %s", inputPath, l.bin, err, msg)
	}
	return fmt.Errorf("converting %s with %s: %w", inputPath, l.bin, err)
}

// checkOutput confirms that pdf exists and was rewritten by this run.
// previous is the file's state before the run, nil when it did not exist.
func checkOutput(inputPath, pdf string, previous os.FileInfo, stderr string) error {
	info, err := os.Stat(pdf)
	if err == nil && info.Mode().IsRegular() && !sameFile(previous, info) {
		return nil
	}
	err = fmt.Errorf("converting %s: %w at %s", inputPath, ErrNoOutput, pdf)
	if msg := tail(stderr); msg != "" {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

func sameFile(previous, current os.FileInfo) bool {
	return previous != nil &&
		previous.ModTime().Equal(current.ModTime()) &&
		previous.Size() == current.Size() &&
		os.SameFile(previous, current)
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}
