package definition

import (
	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a *logrus.Logger to the Logger contract. It is an
// opt-in swap for the stdlib-backed DefaultLogger - pass one to
// peerrpc.WithLogger when structured, leveled fields on the dispatcher and
// endpoint hot paths are wanted.
type LogrusLogger struct {
	entry *logrus.Logger
}

// NewLogrusLogger wraps the given logrus.Logger. A nil logger gets a
// sensible text-formatter default.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &LogrusLogger{entry: logger}
}

func (l *LogrusLogger) Info(v ...interface{})  { l.entry.Info(v...) }
func (l *LogrusLogger) Warn(v ...interface{})  { l.entry.Warn(v...) }
func (l *LogrusLogger) Error(v ...interface{}) { l.entry.Error(v...) }
func (l *LogrusLogger) Debug(v ...interface{}) { l.entry.Debug(v...) }

func (l *LogrusLogger) Infof(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *LogrusLogger) Warnf(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *LogrusLogger) Errorf(format string, v ...interface{}) { l.entry.Errorf(format, v...) }
func (l *LogrusLogger) Debugf(format string, v ...interface{}) { l.entry.Debugf(format, v...) }

func (l *LogrusLogger) ToggleDebug(value bool) bool {
	previous := l.entry.IsLevelEnabled(logrus.DebugLevel)
	if value {
		l.entry.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.SetLevel(logrus.InfoLevel)
	}
	return previous
}
