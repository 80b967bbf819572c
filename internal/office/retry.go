// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay is the first backoff of a Retrying converter. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

type converter interface {
	Convert(ctx context.Context, inputPath, outputDir string) error
}

// Retrying re-runs failed conversions with exponential backoff. LibreOffice
// fails transiently when another instance holds its user profile.
type Retrying struct {
	conv       converter
	maxRetries int
	log        zerolog.Logger
}

// WithRetries wraps conv so a failed conversion is retried up to maxRetries
// times, waiting RetryBaseDelay, then twice as long for every further attempt.
func WithRetries(conv converter, maxRetries int, log zerolog.Logger) *Retrying {
	return &Retrying{conv: conv, maxRetries: maxRetries, log: log}
}

// Convert runs the wrapped converter. Timeouts are not retried. The error of
// the last attempt is returned.
func (r *Retrying) Convert(ctx context.Context, inputPath, outputDir string) error {
	for attempt := 0; ; attempt++ {
		err := r.conv.Convert(ctx, inputPath, outputDir)
		if err == nil || attempt >= r.maxRetries || errors.Is(err, ErrTimeout) || ctx.Err() != nil {
			return err
		}

		backoff := time.Duration(1<<attempt) * RetryBaseDelay
		r.log.Warn().Err(err).
			Str("file", inputPath).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", r.maxRetries).
			Msg("Conversion failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
