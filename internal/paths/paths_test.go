package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateLayout(t *testing.T) {
	root := filepath.Join("some", "repo")

	if got := StateDir(root); got != filepath.Join(root, ".scalyze") {
		t.Errorf("StateDir = %s", got)
	}
	if got := ConfigPath(root); !strings.HasSuffix(got, filepath.Join(".scalyze", "config.json")) {
		t.Errorf("ConfigPath = %s", got)
	}
	if got := DBPath(root); !strings.HasSuffix(got, filepath.Join(".scalyze", "metrics.db")) {
		t.Errorf("DBPath = %s", got)
	}
	if got := BaselinePath(root); !strings.HasSuffix(got, filepath.Join(".scalyze", "baseline.yml")) {
		t.Errorf("BaselinePath = %s", got)
	}
	if got := CLILogPath(root); !strings.HasSuffix(got, filepath.Join("logs", "scalyze.log")) {
		t.Errorf("CLILogPath = %s", got)
	}
}

func TestEnsureStateDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureStateDir(root)
	if err != nil {
		t.Fatalf("EnsureStateDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("state dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("state path should be a directory")
	}

	// Creating again is a no-op
	if _, err := EnsureStateDir(root); err != nil {
		t.Errorf("second EnsureStateDir failed: %v", err)
	}
}

func TestEnsureLogsDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureLogsDir(root)
	if err != nil {
		t.Fatalf("EnsureLogsDir failed: %v", err)
	}
	if !strings.HasPrefix(dir, StateDir(root)) {
		t.Errorf("logs dir %s should sit inside the state dir", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("logs dir missing: %v", err)
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "src", "main", "App.scala")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("object App\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	canonical, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}
	if canonical != "src/main/App.scala" {
		t.Errorf("canonical = %q, want %q", canonical, "src/main/App.scala")
	}
}

func TestCanonicalizePathMissingFile(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "not", "yet", "There.scala")

	canonical, err := CanonicalizePath(missing, root)
	if err != nil {
		t.Fatalf("CanonicalizePath failed for missing file: %v", err)
	}
	if canonical != "not/yet/There.scala" {
		t.Errorf("canonical = %q, want %q", canonical, "not/yet/There.scala")
	}
}

func TestIsWithinRepo(t *testing.T) {
	root := t.TempDir()

	inside := filepath.Join(root, "src", "A.scala")
	if !IsWithinRepo(inside, root) {
		t.Errorf("%s should be within %s", inside, root)
	}

	outside := filepath.Join(filepath.Dir(root), "elsewhere", "B.scala")
	if IsWithinRepo(outside, root) {
		t.Errorf("%s should not be within %s", outside, root)
	}
}

func TestJoinRepoPath(t *testing.T) {
	got := JoinRepoPath("repo", "src/main/App.scala")
	want := filepath.Join("repo", "src", "main", "App.scala")
	if got != want {
		t.Errorf("JoinRepoPath = %q, want %q", got, want)
	}
}
