// Package logx is the engine's logging seam: every other package logs
// through the Logger interface here rather than importing logrus directly,
// matching the way the teacher's tui package called into a single injectable
// log facade instead of scattering logger construction across files.
package logx

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal varargs-style logging surface the engine depends on.
type Logger interface {
	Trace(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type logrusLogger struct {
	entry *logrus.Logger
}

func (l *logrusLogger) Trace(format string, args ...interface{}) { l.entry.Tracef(format, args...) }
func (l *logrusLogger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

var std = newStd()

func newStd() *logrusLogger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(envOr("VIREO_LOG_LEVEL", "info")); err == nil {
		l.SetLevel(lvl)
	}
	return &logrusLogger{entry: l}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Default returns the package-wide logger instance.
func Default() Logger { return std }

// SetLevel adjusts the default logger's verbosity; used by config at startup.
func SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		std.entry.SetLevel(lvl)
	}
}
