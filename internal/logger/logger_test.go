package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"DEBUG":   DEBUG,
		"INFO":    INFO,
		"WARN":    WARN,
		"ERROR":   ERROR,
		"verbose": INFO,
		"":        INFO,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFileLoggingRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{Level: WARN, FilePath: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer l.Close()

	l.Debug("too quiet")
	l.Info("still too quiet")
	l.Warn("loud enough", F("key", "value"))
	l.Error("very loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "too quiet") {
		t.Errorf("below-level entries written:\n%s", out)
	}
	if !strings.Contains(out, "loud enough") || !strings.Contains(out, "key=value") {
		t.Errorf("warn entry missing:\n%s", out)
	}
	if !strings.Contains(out, "very loud") {
		t.Errorf("error entry missing:\n%s", out)
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 64})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer l.Close()

	for i := 0; i < 10; i++ {
		l.Info("a reasonably sized log entry to push the file over the limit")
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
}
