package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetWeekKey(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W01"},
		// ISO week of late December can belong to the next year
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
	}

	for _, tt := range tests {
		if got := getWeekKey(tt.date); got != tt.expected {
			t.Errorf("Expected week key %s for %s, got %s", tt.expected, tt.date.Format(time.DateOnly), got)
		}
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer rl.Close()

	if _, err := rl.Write([]byte("first line\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	path := filepath.Join(dir, logFilePrefix+getWeekKey(time.Now())+".log")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", path, err)
	}
	if !strings.Contains(string(content), "first line") {
		t.Errorf("Expected file to contain the message, got %q", content)
	}
}

func TestRotatingLoggerSizeLimit(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 64)
	defer rl.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for range 5 {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}

	week := getWeekKey(time.Now())
	for _, name := range []string{
		logFilePrefix + week + ".log",
		logFilePrefix + week + "_01.log",
		logFilePrefix + week + "_02.log",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
			continue
		}
		if info.Size() > 64 {
			t.Errorf("Expected %s to stay under the cap, got %d bytes", name, info.Size())
		}
	}
}

func TestRotatingLoggerResumesNumberedFile(t *testing.T) {
	dir := t.TempDir()
	week := getWeekKey(time.Now())

	full := strings.Repeat("y", 100)
	if err := os.WriteFile(filepath.Join(dir, logFilePrefix+week+".log"), []byte(full), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, logFilePrefix+week+"_01.log"), []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 100)
	defer rl.Close()

	if _, err := rl.Write([]byte("resumed")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, logFilePrefix+week+"_01.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "shortresumed" {
		t.Errorf("Expected write to append to _01, got %q", content)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer rl.Close()

	old := filepath.Join(dir, logFilePrefix+"2020-W01.log")
	recent := filepath.Join(dir, logFilePrefix+getWeekKey(time.Now())+".log")
	foreign := filepath.Join(dir, "other.log")

	for _, p := range []string{old, recent, foreign} {
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	for _, p := range []string{old, foreign} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be removed", old)
	}
	if _, err := os.Stat(recent); err != nil {
		t.Errorf("Expected %s to be kept: %v", recent, err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("Expected non-log file to be kept: %v", err)
	}
}

func TestCleanupMissingDirectory(t *testing.T) {
	rl := NewRotatingLogger(filepath.Join(t.TempDir(), "missing"), 1)
	if err := rl.cleanupOldLogs(); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestRotatingLoggerCloseIsIdempotent(t *testing.T) {
	rl := NewRotatingLogger(t.TempDir(), 1)
	rl.startCleanup()
	if _, err := rl.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}

	if err := rl.Close(); err != nil {
		t.Errorf("Expected first close to succeed, got %v", err)
	}
	if err := rl.Close(); err != nil {
		t.Errorf("Expected second close to be a no-op, got %v", err)
	}
}
