package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zarclabs/zarc/pkg/util"
)

// extractZip extracts all entries of a zip archive into targetDir, recreating
// their relative paths underneath it.
func extractZip(ctx context.Context, archivePath, targetDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip file: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(targetDir, util.UserWritableDirPerms); err != nil {
		return err
	}

	for _, entry := range r.File {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		absTarget, err := entryTarget(targetDir, entry.Name)
		if err != nil {
			return err
		}

		// Strip setuid/setgid bits so a crafted archive cannot restore
		// privilege-escalation modes.
		mode := entry.Mode() &^ (os.ModeSetuid | os.ModeSetgid)

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(absTarget, mode); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(absTarget), util.UserWritableDirPerms); err != nil {
			return err
		}

		rc, err := entry.Open()
		if err != nil {
			return err
		}

		if entry.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return err
			}

			// Remove any file a previous entry left here so the link is
			// created fresh.
			_ = os.Remove(absTarget)
			if err := os.Symlink(string(linkTarget), absTarget); err != nil {
				return err
			}
			continue
		}

		outFile, err := os.OpenFile(absTarget, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		closeErr := outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
		os.Chtimes(absTarget, entry.Modified, entry.Modified)
	}
	return nil
}
