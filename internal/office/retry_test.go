// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

// flakyConverter fails the first failures calls with err.
type flakyConverter struct {
	calls    int
	failures int
	err      error
}

func (f *flakyConverter) Convert(context.Context, string, string) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func TestRetrying_ImmediateSuccess(t *testing.T) {
	conv := &flakyConverter{}
	err := WithRetries(conv, 3, zerolog.Nop()).Convert(context.Background(), "/deck/a.pptx", "/out")
	require.NoError(t, err)
	assert.Equal(t, 1, conv.calls)
}

func TestRetrying_RetriesThenSucceeds(t *testing.T) {
	var logs bytes.Buffer
	conv := &flakyConverter{failures: 2, err: errors.New("exit status 1")}

	err := WithRetries(conv, 3, zerolog.New(&logs)).Convert(context.Background(), "/deck/a.pptx", "/out")
	require.NoError(t, err)
	assert.Equal(t, 3, conv.calls)
	assert.Contains(t, logs.String(), "Conversion failed, retrying")
	assert.Contains(t, logs.String(), `"attempt":2`)
}

func TestRetrying_ExhaustsRetries(t *testing.T) {
	conv := &flakyConverter{failures: 10, err: errors.New("exit status 1")}

	err := WithRetries(conv, 2, zerolog.Nop()).Convert(context.Background(), "/deck/a.pptx", "/out")
	require.Error(t, err)
	assert.Equal(t, "exit status 1", err.Error())
	assert.Equal(t, 3, conv.calls, "first attempt plus two retries")
}

func TestRetrying_ZeroRetries(t *testing.T) {
	conv := &flakyConverter{failures: 1, err: errors.New("exit status 1")}

	err := WithRetries(conv, 0, zerolog.Nop()).Convert(context.Background(), "/deck/a.pptx", "/out")
	require.Error(t, err)
	assert.Equal(t, 1, conv.calls)
}

func TestRetrying_TimeoutNotRetried(t *testing.T) {
	conv := &flakyConverter{failures: 1, err: fmt.Errorf("converting a.pptx: %w", ErrTimeout)}

	err := WithRetries(conv, 5, zerolog.Nop()).Convert(context.Background(), "/deck/a.pptx", "/out")
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, 1, conv.calls)
}

func TestRetrying_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conv := &flakyConverter{failures: 10, err: errors.New("exit status 1")}
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = time.Millisecond }()

	done := make(chan error, 1)
	go func() { done <- WithRetries(conv, 5, zerolog.Nop()).Convert(ctx, "/deck/a.pptx", "/out") }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Convert did not return after cancellation")
	}
}
