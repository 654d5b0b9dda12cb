package logger

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// New builds a logrus logger writing to out. Unknown levels fall back to info.
func New(out io.Writer, level, format string) *log.Logger {
	l := log.New()
	l.SetOutput(out)

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
