package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mattjoyce/tsh/internal/storage"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TSH_CONFIG", "")
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runShell(t *testing.T, args []string, input string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelpFlagPrintsUsage(t *testing.T) {
	isolate(t)

	code, stdout, _ := runShell(t, []string{"-h"}, "")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stdout, "Usage: shell [-hvp]") {
		t.Fatalf("usage not printed, got %q", stdout)
	}
}

func TestUnknownFlagPrintsUsage(t *testing.T) {
	isolate(t)

	code, stdout, stderr := runShell(t, []string{"-x"}, "")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Fatalf("usage not printed, got %q", stdout)
	}
	if !strings.Contains(stderr, "-x") {
		t.Fatalf("expected flag error on stderr, got %q", stderr)
	}
}

func TestEndOfInputExitsZero(t *testing.T) {
	isolate(t)

	code, stdout, _ := runShell(t, []string{"-p"}, "")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "" {
		t.Fatalf("expected no output with -p, got %q", stdout)
	}
}

func TestPromptAndQuit(t *testing.T) {
	isolate(t)

	code, stdout, _ := runShell(t, nil, "quit\njobs\n")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "tsh> " {
		t.Fatalf("stdout = %q, want a single prompt", stdout)
	}
}

func TestConfiguredPrompt(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "shell:\n  prompt: \"$ \"\n")

	_, stdout, _ := runShell(t, []string{"-config", cfg}, "\n")
	if stdout != "$ $ " {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	isolate(t)
	cfg := writeConfig(t, "shell:\n  max_jobs: 0\n  log_level: shouty\n")

	code, _, stderr := runShell(t, []string{"-config", cfg}, "")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "invalid configuration") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestMissingCommandContinues(t *testing.T) {
	isolate(t)

	code, stdout, _ := runShell(t, []string{"-p"}, "/no/such/cmd\njobs\n")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "/no/such/cmd: Command not found\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestJournalHistory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs /bin/true")
	}
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("/bin/true not available")
	}
	home := isolate(t)
	dbPath := filepath.Join(home, "journal.db")
	cfg := writeConfig(t, "journal:\n  enabled: true\n  path: "+dbPath+"\n")

	code, _, stderr := runShell(t, []string{"-p", "-config", cfg}, "/bin/true\n")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	code, stdout, stderr := runShell(t, []string{"-config", cfg, "-history", "5"}, "")
	if code != 0 {
		t.Fatalf("history exit code = %d, stderr %q", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected started and exited entries, got %q", stdout)
	}
	if !strings.Contains(lines[0], "started") || !strings.Contains(lines[0], "/bin/true") {
		t.Errorf("first entry = %q", lines[0])
	}
	if !strings.Contains(lines[1], "exited") {
		t.Errorf("second entry = %q", lines[1])
	}
}

func TestJournalOnNetworkMountPrintsHint(t *testing.T) {
	var stderr, logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	err := fmt.Errorf("open journal: %w", &storage.RemoteFSError{Path: "/mnt/share/journal.db", FS: "nfs"})

	journalUnavailable(&stderr, logger, "/mnt/share/journal.db", err)

	want := "tsh: journal disabled: /mnt/share/journal.db is on a nfs mount; set journal.path to a local file\n"
	if stderr.String() != want {
		t.Fatalf("stderr = %q, want %q", stderr.String(), want)
	}
	if !strings.Contains(logs.String(), "journal unavailable") {
		t.Errorf("expected warning log, got %q", logs.String())
	}
}

func TestJournalOtherFailureOnlyLogs(t *testing.T) {
	var stderr, logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	journalUnavailable(&stderr, logger, "/x/journal.db", errors.New("disk full"))

	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected cause in log, got %q", logs.String())
	}
}
