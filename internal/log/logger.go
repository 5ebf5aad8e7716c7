package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Log output formats accepted by ParseFormat.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Options configures NewLogger.
type Options struct {
	// Verbose lowers the level from Warn to Debug.
	Verbose bool

	// Format is one of FormatText, FormatJSON or FormatPretty.
	// Empty means FormatText.
	Format string
}

// ParseFormat validates a log format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatPretty:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: text, json, pretty)", ErrUnknownFormat, s)
	}
}

// NewLogger creates a sanitizing slog.Logger writing to w.
//
// The pretty format renders through charmbracelet/log for interactive
// terminals; text and json use the slog handlers for machine consumption.
// All formats are wrapped in a SecureHandler.
func NewLogger(w io.Writer, opts Options) (*slog.Logger, error) {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	level := levelFor(opts.Verbose)

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatPretty:
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "wordspider",
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(NewSecureHandler(handler)), nil
}

// NewSecureLogger creates a text logger. It is a shorthand for NewLogger
// with FormatText, which cannot fail.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFor(verbose),
	})))
}

// levelFor maps verbose to Debug and everything else to Warn.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
