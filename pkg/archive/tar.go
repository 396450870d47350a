package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zarclabs/zarc/pkg/util"
	"github.com/zarclabs/zarc/pkg/zlog"
)

// writeTarEntry writes a tar archive holding a single file entry.
func writeTarEntry(w io.Writer, name string, data []byte, info os.FileInfo) (retErr error) {
	tw := tar.NewWriter(w)
	defer func() {
		if err := tw.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("tar writer close failed: %w", err)
		}
	}()

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to create tar header for %s: %w", name, err)
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}
	_, err = tw.Write(data)
	return err
}

// tarDirectory writes every file under root into a tar stream, named by its
// slash-normalized relative path. Symlinks are preserved as link entries.
func tarDirectory(ctx context.Context, w io.Writer, root string) (retErr error) {
	tw := tar.NewWriter(w)
	defer func() {
		if err := tw.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("tar writer close failed: %w", err)
		}
	}()

	return walkFiles(ctx, root, func(absPath, relPath string, info os.FileInfo) error {
		zlog.Debug("adding entry", "file", relPath)

		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(absPath)
			if err != nil {
				return fmt.Errorf("failed to read link %s: %w", absPath, err)
			}
			header, err := tar.FileInfoHeader(info, linkTarget)
			if err != nil {
				return fmt.Errorf("failed to create tar header for %s: %w", relPath, err)
			}
			header.Name = relPath
			return tw.WriteHeader(header)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to create tar header for %s: %w", relPath, err)
		}
		header.Name = relPath

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", relPath, err)
		}

		src, err := os.Open(absPath)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", absPath, err)
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
}

// extractTar extracts all entries of a plain tar archive into targetDir,
// recreating their relative paths underneath it.
func extractTar(ctx context.Context, archivePath, targetDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open tar file: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(targetDir, util.UserWritableDirPerms); err != nil {
		return err
	}

	tr := tar.NewReader(f)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("corrupt tar archive: %w", err)
		}

		absTarget, err := entryTarget(targetDir, header.Name)
		if err != nil {
			return err
		}

		// Strip setuid/setgid bits so a crafted archive cannot restore
		// privilege-escalation modes.
		mode := os.FileMode(header.Mode) &^ (os.ModeSetuid | os.ModeSetgid)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(absTarget, mode); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(absTarget), util.UserWritableDirPerms); err != nil {
				return err
			}

			outFile, err := os.OpenFile(absTarget, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
			if err != nil {
				return err
			}
			_, err = io.Copy(outFile, tr)
			closeErr := outFile.Close()
			if err != nil {
				return err
			}
			if closeErr != nil {
				return closeErr
			}
			os.Chtimes(absTarget, header.AccessTime, header.ModTime)
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(absTarget), util.UserWritableDirPerms); err != nil {
				return err
			}

			// Remove any file a previous entry left here so the link is
			// created fresh.
			_ = os.Remove(absTarget)
			if err := os.Symlink(header.Linkname, absTarget); err != nil {
				return err
			}
		}
	}
	return nil
}
