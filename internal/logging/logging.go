// Package logging builds the logrus loggers shared by the emulator packages.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a text logger at the given level ("debug", "info", "warn", ...).
// An unknown level falls back to info.
func New(level string) *logrus.Logger {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// Discard returns a logger that drops everything. Library packages use it
// when no logger was injected.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
