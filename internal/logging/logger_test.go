package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

var errBoom = errors.New("boom")

func TestNewLoggerDefaultsToStderr(t *testing.T) {
	logger := NewLogger(nil)
	if logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}
	if logger.level != LevelInfo {
		t.Errorf("default level = %v, want LevelInfo", logger.level)
	}
	if logger.logger.Writer() != os.Stderr {
		t.Errorf("default output = %v, want os.Stderr", logger.logger.Writer())
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should be suppressed")
	logger.Info("should be suppressed too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below configured level, got: %s", buf.String())
	}

	logger.Warn("visible warning")
	if !strings.Contains(buf.String(), "visible warning") {
		t.Errorf("expected warning in output, got: %s", buf.String())
	}
}

func TestLoggerFormatsKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Debug("task dropped", "task_id", 7, "reason", "short header")
	output := buf.String()
	if !strings.Contains(output, "task_id=7") {
		t.Errorf("expected task_id=7 in output, got: %s", output)
	}
	if !strings.Contains(output, "reason=short header") {
		t.Errorf("expected reason=short header in output, got: %s", output)
	}
}

func TestPrintfVariants(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Errorf("task %d failed with code %d", 3, 9)
	if !strings.Contains(buf.String(), "task 3 failed with code 9") {
		t.Errorf("expected formatted message, got: %s", buf.String())
	}
}

func TestWithTaskCarriesFieldAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	taskLogger := logger.WithTask(7)
	taskLogger.Warn("incorrect payload size", "expected", 2, "got", 6)
	output := buf.String()
	if !strings.Contains(output, "task_id=7") {
		t.Errorf("expected task_id=7 in output, got: %s", output)
	}
	if !strings.Contains(output, "expected=2 got=6") {
		t.Errorf("expected call-site args to follow task_id, got: %s", output)
	}
}

func TestWithQueueAndWithErrorCompose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	derived := logger.WithTask(9).WithQueue("normal").WithError(errBoom)
	derived.Debug("peer nonresponsive")
	output := buf.String()
	for _, want := range []string{"task_id=9", "queue=normal", "err=boom"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestWithTaskLeavesParentLoggerUnaffected(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	_ = logger.WithTask(1)
	logger.Info("plain message")
	if strings.Contains(buf.String(), "task_id=") {
		t.Errorf("deriving a logger must not mutate the parent, got: %s", buf.String())
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))

	Info("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Errorf("expected info message, got: %s", buf.String())
	}

	buf.Reset()
	Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected error message, got: %s", buf.String())
	}
}
