// Package logging builds the logrus loggers used by the commands.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to out at the given level and format.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", FormatText:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want %s or %s", format, FormatText, FormatJSON)
	}
	return log, nil
}

// Discard returns a logger that drops everything. Library packages use it
// when the caller supplies no logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
