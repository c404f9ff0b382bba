package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

const header = `${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`

// New returns a component logger writing to w.
func New(prefix string, w io.Writer, lvl log.Lvl) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(header)
	l.SetOutput(w)
	l.SetLevel(lvl)
	return l
}

// Discard is used when a caller passes no logger.
func Discard(prefix string) *log.Logger {
	return New(prefix, io.Discard, log.OFF)
}

// OrDiscard returns l, or a silent logger if l is nil.
func OrDiscard(l *log.Logger, prefix string) *log.Logger {
	if l == nil {
		return Discard(prefix)
	}
	return l
}

// ParseLevel maps debug|info|warn|error|off; anything else is INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// OpenFile opens path for appending. On failure it falls back to stderr
// and reports the error so the caller can mention it once.
func OpenFile(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nopCloser{os.Stderr}, err
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
