// Package logging provides tests for run logs and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// TestNewRunLogger tests creating a new run logger.
func TestNewRunLogger(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		logger, err := NewRunLogger(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if !strings.HasSuffix(logger.LogPath, logger.RunID+".log") {
			t.Errorf("LogPath %q does not end with run id", logger.LogPath)
		}
		if logger.Logger == nil {
			t.Fatal("expected Logger to be set")
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		_, err := NewRunLogger("", DefaultOptions())
		if err == nil {
			t.Fatal("expected error for empty dir, got nil")
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("expected empty dir error, got %v", err)
		}
	})

	t.Run("creates log directory if missing", func(t *testing.T) {
		newLogDir := filepath.Join(t.TempDir(), "new-logs", "nested")

		logger, err := NewRunLogger(newLogDir, DefaultOptions())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(newLogDir); err != nil {
			t.Errorf("log directory not created: %v", err)
		}
	})

	t.Run("writes records to the file", func(t *testing.T) {
		logger, err := NewRunLogger(t.TempDir(), Options{Level: "debug", Format: "logfmt"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Logger.Warn("discarding undecodable task list", "key", "tasksKey")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		data, err := os.ReadFile(logger.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "key=tasksKey") {
			t.Errorf("log file missing record: %q", data)
		}
	})
}

func TestRunLoggerCloseNil(t *testing.T) {
	var r *RunLogger
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestRunID(t *testing.T) {
	id := runID()

	// Should be in format: YYYYMMDD-HHMMSS-PID
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts separated by '-', got %d: %s", len(parts), id)
	}
	if _, err := time.Parse("20060102", parts[0]); err != nil {
		t.Errorf("first part not a valid date: %v", err)
	}
	if _, err := time.Parse("150405", parts[1]); err != nil {
		t.Errorf("second part not a valid time: %v", err)
	}
	if parts[2] == "" {
		t.Error("PID part is empty")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}

	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) should be false")
	}
	if !ValidLevel(" Warn ") {
		t.Error("ValidLevel(Warn) should be true")
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}

	if ValidFormat("yaml") {
		t.Error("ValidFormat(yaml) should be false")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "warn", Format: "logfmt"})
	logger.Info("hidden")
	logger.Warn("shown")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info record written at warn level: %q", got)
	}
	if !strings.Contains(got, "shown") {
		t.Errorf("warn record missing: %q", got)
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("finds latest log in directory", func(t *testing.T) {
		logDir := t.TempDir()

		files := []string{"20240101-120000-100.log", "20240101-120001-101.log", "20240101-120002-102.log"}
		base := time.Now().Add(-time.Hour)
		for i, f := range files {
			path := filepath.Join(logDir, f)
			if err := os.WriteFile(path, []byte("test"), 0o644); err != nil {
				t.Fatal(err)
			}
			mtime := base.Add(time.Duration(i) * time.Minute)
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
		}

		latest, err := FindLatestLog(logDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(latest) != "20240101-120002-102.log" {
			t.Errorf("latest: got %s", latest)
		}
	})

	t.Run("returns empty for non-existent directory", func(t *testing.T) {
		latest, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil {
			t.Fatalf("expected no error for non-existent dir, got %v", err)
		}
		if latest != "" {
			t.Errorf("expected empty path, got %s", latest)
		}
	})

	t.Run("ignores other files and subdirectories", func(t *testing.T) {
		logDir := t.TempDir()

		os.WriteFile(filepath.Join(logDir, "readme.txt"), []byte("readme"), 0o644)
		os.Mkdir(filepath.Join(logDir, "old.log"), 0o755)
		os.WriteFile(filepath.Join(logDir, "run.log"), []byte("log"), 0o644)

		latest, err := FindLatestLog(logDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(latest) != "run.log" {
			t.Errorf("expected run.log, got %s", latest)
		}
	})
}

func TestTailLog(t *testing.T) {
	ctx := context.Background()

	t.Run("tails entire file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		content := "line1\nline2\nline3\n"
		if err := os.WriteFile(logFile, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 0, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("tails last lines of a large file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		var b strings.Builder
		for i := 0; i < 500; i++ {
			b.WriteString(strings.Repeat("x", 50))
			b.WriteString("\n")
		}
		b.WriteString("last line\n")
		if err := os.WriteFile(logFile, []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 2, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := buf.String()
		if !strings.HasSuffix(got, "last line\n") {
			t.Errorf("expected last line, got %q", got)
		}
		if len(got) > 300 {
			t.Errorf("expected a short tail, got %d bytes", len(got))
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, filepath.Join(t.TempDir(), "missing.log"), 0, false); err == nil {
			t.Fatal("expected error for non-existent file, got nil")
		}
	})

	t.Run("follow stops when context is cancelled", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping follow test on Windows due to file locking issues")
		}

		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("initial\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		followCtx, cancel := context.WithCancel(ctx)
		var buf bytes.Buffer
		done := make(chan error, 1)
		go func() {
			done <- TailLog(followCtx, &buf, logFile, 0, true)
		}()

		time.Sleep(50 * time.Millisecond)
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.WriteString("appended line\n"); err != nil {
			t.Fatal(err)
		}
		f.Close()
		time.Sleep(250 * time.Millisecond)

		cancel()
		if err := <-done; err != nil {
			t.Fatalf("TailLog: %v", err)
		}

		got := buf.String()
		if !strings.Contains(got, "initial") || !strings.Contains(got, "appended") {
			t.Errorf("unexpected follow output: %q", got)
		}
	})
}
