package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewModelUsesConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  listen: 127.0.0.1:9911\n  token: abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := newModel(path, "", ""); err != nil {
		t.Fatalf("newModel: %v", err)
	}
}

func TestNewModelRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("shell:\n  max_jobs: 99999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := newModel(path, "", ""); err == nil {
		t.Fatal("expected config error")
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"-bogus"}, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "bogus") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
