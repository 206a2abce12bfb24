// Package logging builds the program's structured logger and adapts it to
// receive driver diagnostics.
package logging

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
)

// Format is the output encoding of the log records.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", errors.Newf("unknown log format %q, expected %q or %q", s, FormatText, FormatJSON)
	}
}

// New returns a logger writing to w. With debug set records at debug level
// are emitted as well.
func New(w io.Writer, format Format, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Sink forwards driver diagnostics to a logger. Messages below MinSeverity
// are dropped.
type Sink struct {
	Logger      *slog.Logger
	MinSeverity gpu.Severity
}

var _ gpu.DiagnosticSink = (*Sink)(nil)

// NewSink returns a sink which keeps errors, warnings and performance
// warnings.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{
		Logger:      logger.With(slog.String("source", "validation")),
		MinSeverity: gpu.SeverityPerformance,
	}
}

// Report implements gpu.DiagnosticSink.
func (s *Sink) Report(severity gpu.Severity, message string) {
	if severity < s.MinSeverity {
		return
	}
	s.Logger.Log(context.Background(), Level(severity), message,
		slog.String("severity", severity.String()))
}

// Level maps a diagnostic severity onto a log level.
func Level(severity gpu.Severity) slog.Level {
	switch severity {
	case gpu.SeverityError:
		return slog.LevelError
	case gpu.SeverityWarning, gpu.SeverityPerformance:
		return slog.LevelWarn
	case gpu.SeverityInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
