// Package logging configures the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects the log level ("debug", "info", "warn", "error") and format
// ("json" or "text").
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a logrus logger from cfg and installs it as the standard logger.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(ParseLevel(cfg.Level))

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	std := logrus.StandardLogger()
	std.SetLevel(logger.GetLevel())
	std.SetFormatter(logger.Formatter)
	std.SetOutput(out)

	return logger
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
