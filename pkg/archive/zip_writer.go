package archive

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/zarclabs/zarc/pkg/zlog"
)

// newZipWriter returns a zip writer whose DEFLATE entries are compressed at
// the given level.
func newZipWriter(w io.Writer, level Level) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, int(level))
	})
	return zw
}

// writeZipEntry writes a zip archive holding a single DEFLATE entry named by
// the input file's base name.
func writeZipEntry(w io.Writer, name string, data []byte, info os.FileInfo, level Level) (retErr error) {
	zw := newZipWriter(w, level)
	defer func() {
		if err := zw.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("zip writer close failed: %w", err)
		}
	}()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create zip header for %s: %w", name, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	ew, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to write zip header for %s: %w", name, err)
	}
	_, err = ew.Write(data)
	return err
}

// zipDirectory writes every file under root into a zip stream at the default
// compression level, named by its slash-normalized relative path. Symlinks
// are stored uncompressed with the link target as the entry body.
func zipDirectory(ctx context.Context, w io.Writer, root string) (retErr error) {
	zw := newZipWriter(w, DefaultLevel)
	defer func() {
		if err := zw.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("zip writer close failed: %w", err)
		}
	}()

	return walkFiles(ctx, root, func(absPath, relPath string, info os.FileInfo) error {
		zlog.Debug("adding entry", "file", relPath)

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create zip header for %s: %w", relPath, err)
		}
		header.Name = relPath

		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(absPath)
			if err != nil {
				return fmt.Errorf("failed to read link %s: %w", absPath, err)
			}
			header.Method = zip.Store // symlinks are stored, not compressed
			ew, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("failed to write zip header for %s: %w", relPath, err)
			}
			_, err = ew.Write([]byte(linkTarget))
			return err
		}

		header.Method = zip.Deflate
		ew, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to write zip header for %s: %w", relPath, err)
		}

		src, err := os.Open(absPath)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", absPath, err)
		}
		defer src.Close()

		_, err = io.Copy(ew, src)
		return err
	})
}
