// Package logging builds the charmbracelet loggers used across the service.
// Components take a *log.Logger and derive their own with WithPrefix.
package logging

import (
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// New returns the root logger writing to stderr at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// Discard is the logger used when a component is built without one.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Component returns l (or a discarding logger when l is nil) with a prefix.
func Component(l *log.Logger, name string) *log.Logger {
	if l == nil {
		l = Discard()
	}
	return l.WithPrefix(name)
}

const shortLimit = 180

// Short trims long model output for log lines, cutting on a rune boundary.
func Short(s string) string {
	if len(s) <= shortLimit {
		return s
	}
	cut := shortLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
