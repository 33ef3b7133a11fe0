package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", File: path, Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	_, err := Load(Source{Name: "gemini api key", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("JOB_SCOUT_TEST_KEY", " env-secret ")

	got, err := Load(Source{Name: "gemini api key", Env: "JOB_SCOUT_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-secret" {
		t.Fatalf("expected env value, got %q", got)
	}

	got, err = Load(Source{Name: "gemini api key", Value: "inline", Env: "JOB_SCOUT_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected inline value to win over env, got %q", got)
	}
}

func TestLoadNotConfigured(t *testing.T) {
	t.Setenv("JOB_SCOUT_TEST_KEY", "")

	_, err := Load(Source{Env: "JOB_SCOUT_TEST_KEY"})
	if err == nil || !strings.Contains(err.Error(), "secret is not configured (set JOB_SCOUT_TEST_KEY)") {
		t.Fatalf("unexpected error: %v", err)
	}
}
