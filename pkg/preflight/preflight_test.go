package preflight_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zarclabs/zarc/pkg/preflight"
)

func TestCheckInput(t *testing.T) {
	tempDir := t.TempDir()

	existing := filepath.Join(tempDir, "input.txt")
	if err := os.WriteFile(existing, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := preflight.CheckInput(existing); err != nil {
		t.Errorf("CheckInput on existing file: %v", err)
	}
	if err := preflight.CheckInput(tempDir); err != nil {
		t.Errorf("CheckInput on existing directory: %v", err)
	}

	err := preflight.CheckInput(filepath.Join(tempDir, "missing.txt"))
	if !errors.Is(err, preflight.ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got: %v", err)
	}
}

func TestCheckOutput(t *testing.T) {
	tempDir := t.TempDir()

	if err := preflight.CheckOutput(filepath.Join(tempDir, "new.gz")); err != nil {
		t.Errorf("CheckOutput on free path: %v", err)
	}

	existingFile := filepath.Join(tempDir, "taken.gz")
	if err := os.WriteFile(existingFile, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := preflight.CheckOutput(existingFile); !errors.Is(err, preflight.ErrOutputExists) {
		t.Errorf("expected ErrOutputExists for existing file, got: %v", err)
	}
	if err := preflight.CheckOutput(tempDir); !errors.Is(err, preflight.ErrOutputExists) {
		t.Errorf("expected ErrOutputExists for existing directory, got: %v", err)
	}
}

func TestCheckOutputWritable(t *testing.T) {
	tempDir := t.TempDir()

	if err := preflight.CheckOutputWritable(filepath.Join(tempDir, "out.gz")); err != nil {
		t.Errorf("CheckOutputWritable in temp dir: %v", err)
	}

	// The deepest existing ancestor of a nested, not-yet-created path is the
	// temp dir itself, which is writable.
	nested := filepath.Join(tempDir, "does", "not", "exist", "out.gz")
	if err := preflight.CheckOutputWritable(nested); err != nil {
		t.Errorf("CheckOutputWritable with missing ancestors: %v", err)
	}

	// A file in the ancestor chain is rejected.
	blocker := filepath.Join(tempDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := preflight.CheckOutputWritable(filepath.Join(blocker, "out.gz")); err == nil {
		t.Error("expected error when output parent is a regular file")
	}
}
