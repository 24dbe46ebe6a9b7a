package definition

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDefaultLoggerDebugToggle(t *testing.T) {
	var buf bytes.Buffer
	l := &DefaultLogger{Logger: log.New(&buf, "", 0)}

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output before enabling debug, got %q", buf.String())
	}

	previous := l.ToggleDebug(true)
	if previous {
		t.Fatal("expected previous debug state to be false")
	}

	l.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug output after enabling, got %q", buf.String())
	}
}

func TestDefaultLoggerLevelsPrefixed(t *testing.T) {
	var buf bytes.Buffer
	l := &DefaultLogger{Logger: log.New(&buf, "", 0)}

	l.Warnf("disk at %d%%", 90)
	if !strings.Contains(buf.String(), "[WARN]") || !strings.Contains(buf.String(), "disk at 90%") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestLogrusLoggerToggleDebug(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(new(bytes.Buffer))
	l := NewLogrusLogger(logger)

	if l.ToggleDebug(true) {
		t.Fatal("expected previous state to be false at info level")
	}
	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
	if !l.ToggleDebug(false) {
		t.Fatal("expected previous state to be true after enabling debug")
	}
}

func TestNewLogrusLoggerNilDefault(t *testing.T) {
	l := NewLogrusLogger(nil)
	if l.entry == nil {
		t.Fatal("expected a default logrus.Logger to be created")
	}
}
