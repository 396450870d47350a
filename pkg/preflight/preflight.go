// Package preflight provides the validation checks that run before an
// operation begins. The checks are stateless and side-effect free: they
// ensure the filesystem is in a suitable state for the operation to proceed
// without changing anything themselves.
package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrPathNotFound reports an input path that does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrOutputExists reports an output path that collides with an existing
	// file or directory. There is deliberately no force-overwrite flag;
	// refusing the path up front prevents silent data loss.
	ErrOutputExists = errors.New("output path already exists")
)

// CheckInput verifies that the input path exists on the filesystem.
func CheckInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return fmt.Errorf("cannot stat input path %s: %w", path, err)
	}
	return nil
}

// CheckOutput verifies that nothing exists at the output path yet.
func CheckOutput(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat output path %s: %w", path, err)
	}
	return nil
}

// CheckOutputWritable walks up from the output's parent directory to the
// deepest existing ancestor and probes it for write access. This surfaces
// permission problems with a clear error before any input bytes are read,
// instead of failing halfway through the write.
func CheckOutputWritable(path string) error {
	ancestor := filepath.Dir(filepath.Clean(path))
	for {
		info, err := os.Stat(ancestor)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("output parent %s exists but is not a directory", ancestor)
			}
			return platformCheckWritable(ancestor)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access %s: %w", ancestor, err)
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return fmt.Errorf("no existing ancestor directory for output path %s", path)
		}
		ancestor = parent
	}
}
