package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func readLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(FilePath(dir))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	return string(data)
}

func initLogger(t *testing.T, opts Options) {
	t.Helper()
	closer, err := Init(opts)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		closer.Close()
		std = log.New(io.Discard)
	})
}

func TestInitDefaultsToWarn(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	initLogger(t, Options{Dir: dir})

	Info("cache warmed")
	Warn("store value unreadable", "key", "2024-06-10")

	got := readLog(t, dir)
	if !strings.Contains(got, "store value unreadable") || !strings.Contains(got, "key=2024-06-10") {
		t.Errorf("warning missing from log:\n%s", got)
	}
	if strings.Contains(got, "cache warmed") {
		t.Errorf("info line written at warn level:\n%s", got)
	}
}

func TestInitLevel(t *testing.T) {
	dir := t.TempDir()
	initLogger(t, Options{Dir: dir, Level: "info"})

	Debug("hidden")
	Info("shown", "slot", "lunch")

	got := readLog(t, dir)
	if !strings.Contains(got, "shown") || strings.Contains(got, "hidden") {
		t.Errorf("unexpected log contents:\n%s", got)
	}
}

func TestInitVerboseEchoesToStderr(t *testing.T) {
	dir := t.TempDir()
	stderr := &bytes.Buffer{}
	initLogger(t, Options{Dir: dir, Level: "error", Verbose: true, Stderr: stderr})

	Debug("debug line", "slot", "dinner")
	With("backend", "sqlite").Info("child line")

	for _, want := range []string{"debug line", "child line", "backend=sqlite"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr.String())
		}
		if !strings.Contains(readLog(t, dir), want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	// None of these may panic before Init.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	With("k", "v").Warn("child")
}

func TestInitWithUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	// A regular file where the config dir should be makes MkdirAll fail.
	if _, err := Init(Options{Dir: blocker}); err == nil {
		t.Error("Init() expected error for a config dir that is a file")
	}
}
