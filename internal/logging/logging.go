// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to w (stdout when nil). Format "json" emits
// one JSON object per line; anything else uses the human console writer.
func New(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	out := w
	if !strings.EqualFold(cfg.Format, FormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
