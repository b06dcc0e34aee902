// Package obslog is the trustee loop's logging wrapper: field-based
// structured logging on logrus with level, format, and output
// selection, without the trace-ID/context plumbing a single-process
// loop has no use for.
package obslog

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls the trustee loop's logger construction.
type Config struct {
	Level  string // logrus level name; defaults to "info" on parse failure
	Format string // "json" or "text" (default)
	Output string // "" or "stdout" for stdout, else a log file path
}

// New builds a *logrus.Logger per cfg. The default destination is
// stdout (a trustee process is long-running and unattended, so the
// caller's own process supervisor is the usual delivery story); when
// Output names a file path, lines are appended there in addition to
// stdout. A file that cannot be opened is reported on the logger
// itself and the process keeps running on stdout alone, since losing
// a log file is not worth halting a trustee over.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetOutput(os.Stdout)
	switch output := strings.TrimSpace(cfg.Output); strings.ToLower(output) {
	case "", "stdout":
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.WithError(err).Error("failed to open log file, logging to stdout only")
		} else {
			logger.SetOutput(io.MultiWriter(os.Stdout, file))
		}
	}

	return logger
}
