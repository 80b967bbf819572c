// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gitlog reads commit information for single files from git.
package gitlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var (
	// ErrNoHistory is returned for files git has no commits for.
	ErrNoHistory = errors.New("no git history")
	// ErrBadDate is returned when git prints a date that is not ISO 8601.
	ErrBadDate = errors.New("unparsable commit date")
)

// executor abstracts command execution for testing.
type executor interface {
	Run(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) Run(ctx context.Context, dir, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Log queries git for the history of files.
type Log struct {
	bin  string
	exec executor
}

// New returns a Log that runs the git binary found on PATH.
func New() *Log {
	return &Log{bin: "git", exec: osExecutor{}}
}

// Last returns the most recent commit touching file. A commit whose date
// cannot be parsed is returned with a zero Date and the raw text in RawDate.
func (l *Log) Last(ctx context.Context, file string) (types.Commit, error) {
	out, err := l.run(ctx, file, "log", "-n", "1", "--pretty=format:%h%x09%aI")
	if err != nil {
		return types.Commit{}, err
	}
	hash, raw, _ := strings.Cut(out, "\t")
	c := types.Commit{Hash: strings.TrimSpace(hash), RawDate: strings.TrimSpace(raw)}
	c.Date, _ = parseDate(c.RawDate)
	return c, nil
}

// First returns the author date of the oldest commit of file, following
// renames.
func (l *Log) First(ctx context.Context, file string) (time.Time, error) {
	out, err := l.run(ctx, file, "log", "--follow", "--pretty=format:%aI")
	if err != nil {
		return time.Time{}, err
	}
	lines := strings.Split(out, "\n")
	return parseDate(strings.TrimSpace(lines[len(lines)-1]))
}

// run executes git in the directory of file and returns trimmed stdout.
func (l *Log) run(ctx context.Context, file string, args ...string) (string, error) {
	dir, base := filepath.Split(file)
	if dir == "" {
		dir = "."
	}
	args = append(args, "--", base)

	var stdout, stderr bytes.Buffer
	if err := l.exec.Run(ctx, dir, l.bin, args, &stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s for %s: %w: %s", args[0], file, err, msg)
		}
		return "", fmt.Errorf("git %s for %s: %w", args[0], file, err)
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("%s: %w", file, ErrNoHistory)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadDate)
	}
	return t, nil
}
