package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	want := filepath.Join(configDir, "logs", "habitsnap.log")
	if Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}

	Info("filtered at the default level")
	Warn("reminder delivery failed", "habit", "h1")

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if !strings.Contains(string(data), "reminder delivery failed") {
		t.Errorf("warning missing from log file:\n%s", data)
	}
	if strings.Contains(string(data), "filtered") {
		t.Errorf("info entry should be filtered:\n%s", data)
	}
}

func TestInitDebugMode(t *testing.T) {
	var stderr strings.Builder
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir(), Stderr: &stderr}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("scan finished", "fired", 2)
	if !strings.Contains(stderr.String(), "scan finished") {
		t.Errorf("debug entry missing from stderr: %q", stderr.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if Path() != "" {
		t.Errorf("Path() = %q before Init, want empty", Path())
	}
}
