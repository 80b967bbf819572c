// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gitlog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
}

// mockExecutor records calls and answers with canned output.
type mockExecutor struct {
	calls  []call
	stdout string
	stderr string
	err    error
}

func (m *mockExecutor) Run(_ context.Context, dir, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, call{dir: dir, name: name, args: args})
	io.WriteString(stdout, m.stdout)
	io.WriteString(stderr, m.stderr)
	return m.err
}

func TestLast(t *testing.T) {
	exec := &mockExecutor{stdout: "abc1234\t2024-05-02T12:30:00+02:00"}
	l := &Log{bin: "git", exec: exec}

	c, err := l.Last(context.Background(), "/repo/slides/intro.pptx")
	require.NoError(t, err)
	assert.Equal(t, "abc1234", c.Hash)
	assert.Equal(t, "2024-05-02T12:30:00+02:00", c.RawDate)
	assert.True(t, time.Date(2024, time.May, 2, 10, 30, 0, 0, time.UTC).Equal(c.Date))

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "/repo/slides/", exec.calls[0].dir)
	assert.Equal(t, "git", exec.calls[0].name)
	assert.Equal(t, []string{"log", "-n", "1", "--pretty=format:%h%x09%aI", "--", "intro.pptx"}, exec.calls[0].args)
}

func TestLast_BadDate(t *testing.T) {
	l := &Log{bin: "git", exec: &mockExecutor{stdout: "abc1234\tyesterday"}}

	c, err := l.Last(context.Background(), "intro.pptx")
	require.NoError(t, err)
	assert.Equal(t, "abc1234", c.Hash)
	assert.Equal(t, "yesterday", c.RawDate)
	assert.True(t, c.Date.IsZero())
}

func TestFirst(t *testing.T) {
	exec := &mockExecutor{stdout: "2024-05-02T12:30:00+02:00\n2023-01-10T08:00:00+01:00\n2022-03-01T10:00:00Z\n"}
	l := &Log{bin: "git", exec: exec}

	got, err := l.First(context.Background(), "deck/intro.pptx")
	require.NoError(t, err)
	assert.True(t, time.Date(2022, time.March, 1, 10, 0, 0, 0, time.UTC).Equal(got))
	assert.Equal(t, []string{"log", "--follow", "--pretty=format:%aI", "--", "intro.pptx"}, exec.calls[0].args)
	assert.Equal(t, "deck/", exec.calls[0].dir)
}

func TestFirst_BadDate(t *testing.T) {
	l := &Log{bin: "git", exec: &mockExecutor{stdout: "garbage"}}
	_, err := l.First(context.Background(), "intro.pptx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadDate))
}

func TestNoHistory(t *testing.T) {
	exec := &mockExecutor{}
	l := &Log{bin: "git", exec: exec}

	_, err := l.Last(context.Background(), "new.pptx")
	assert.True(t, errors.Is(err, ErrNoHistory))
	_, err = l.First(context.Background(), "new.pptx")
	assert.True(t, errors.Is(err, ErrNoHistory))
	assert.Equal(t, ".", exec.calls[0].dir)
}

func TestGitFailure(t *testing.T) {
	l := &Log{bin: "git", exec: &mockExecutor{
		stderr: "fatal: not a git repository\n",
		err:    errors.New("exit status 128"),
	}}

	_, err := l.Last(context.Background(), "/tmp/x.pptx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
	assert.Contains(t, err.Error(), "/tmp/x.pptx")
	assert.False(t, errors.Is(err, ErrNoHistory))
}
