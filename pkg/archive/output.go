package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zarclabs/zarc/pkg/util"
)

// writeAtomic writes through a temp file in the output's directory and renames
// it into place. A failed write removes the temp file, so no partial output is
// left behind.
func writeAtomic(outputPath string, write func(f *os.File) error) (retErr error) {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".zarc-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(util.UserWritableFilePerms); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp output: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to rename temp output to final path: %w", err)
	}
	return nil
}
