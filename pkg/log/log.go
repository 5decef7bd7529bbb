package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
)

// Formats understood by Slog.
const (
	FormatTint    = "tint"
	FormatZerolog = "zerolog"
)

var (
	ErrUnknownFormat = errors.New("unknown log format")
	ErrUnknownLevel  = errors.New("unknown log level")
)

// New returns a zerolog logger. Inside Kubernetes it writes JSON to stderr,
// otherwise a console format to stdout.
func New() *zerolog.Logger {
	return newZerolog(output())
}

func output() io.Writer {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
}

func newZerolog(w io.Writer) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}

// ParseLevel accepts the slog level names (debug, info, warn, error),
// optionally with an offset such as "info+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// Slog builds the logger handed to the library. The zerolog format goes
// through logr, so slog levels below info map to logr verbosity.
func Slog(format string, level slog.Level) (*slog.Logger, error) {
	return slogTo(format, level, os.Stderr, output())
}

func slogTo(format string, level slog.Level, tw, zw io.Writer) (*slog.Logger, error) {
	switch format {
	case FormatTint:
		return slog.New(tint.NewHandler(tw, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})), nil
	case FormatZerolog:
		zerologr.NameFieldName = "logger"
		zerologr.NameSeparator = "/"
		zerologr.SetMaxV(max(0, int(slog.LevelInfo-level)))

		zl := newZerolog(zw)
		return slog.New(logr.ToSlogHandler(zerologr.New(zl))), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
