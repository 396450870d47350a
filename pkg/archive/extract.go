package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"

	"github.com/zarclabs/zarc/pkg/preflight"
	"github.com/zarclabs/zarc/pkg/util"
	"github.com/zarclabs/zarc/pkg/zlog"
)

// Decompress restores inputPath based on its filename suffix. The dispatch is
// a case-sensitive exact match on the trailing extension; file contents are
// never inspected. Single-stream codecs (gz, xz, bz2, zst) write outputPath
// as a file, archive containers (zip, tar) extract into outputPath as a
// directory.
func Decompress(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := preflight.CheckInput(inputPath); err != nil {
		return err
	}
	if err := preflight.CheckOutput(outputPath); err != nil {
		return err
	}
	if err := preflight.CheckOutputWritable(outputPath); err != nil {
		return err
	}

	zlog.Info("decompressing", "input", inputPath, "output", outputPath)

	var err error
	switch {
	case strings.HasSuffix(inputPath, ".gz"):
		err = decompressStream(inputPath, outputPath, func(r io.Reader) (io.Reader, error) {
			return pgzip.NewReader(r)
		})
	case strings.HasSuffix(inputPath, ".xz"):
		err = decompressStream(inputPath, outputPath, func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r)
		})
	case strings.HasSuffix(inputPath, ".bz2"):
		err = decompressStream(inputPath, outputPath, func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r, nil)
		})
	case strings.HasSuffix(inputPath, ".zip"):
		err = extractZip(ctx, inputPath, outputPath)
	case strings.HasSuffix(inputPath, ".tar"):
		err = extractTar(ctx, inputPath, outputPath)
	case strings.HasSuffix(inputPath, ".zst"):
		// Placeholder: the compressor wrote raw bytes, so restoring is a
		// plain copy.
		err = decompressStream(inputPath, outputPath, func(r io.Reader) (io.Reader, error) {
			return r, nil
		})
	default:
		return fmt.Errorf("%w: unrecognized suffix on %s", ErrUnsupportedFormat, inputPath)
	}
	if err != nil {
		return err
	}

	zlog.Info("decompression complete", "output", outputPath)
	return nil
}

// decompressStream streams inputPath through the codec reader returned by
// open and writes the result to outputPath.
func decompressStream(inputPath, outputPath string, open func(io.Reader) (io.Reader, error)) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer in.Close()

	return writeAtomic(outputPath, func(f *os.File) error {
		r, err := open(in)
		if err != nil {
			return fmt.Errorf("failed to read compressed stream: %w", err)
		}
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		_, err = io.Copy(f, r)
		return err
	})
}

// entryTarget resolves an archive entry name under targetDir and rejects
// entries that would escape it via relative components like "../".
func entryTarget(targetDir, entryName string) (string, error) {
	relPath := util.NormalizePath(entryName)
	absTarget := filepath.Join(targetDir, relPath)
	if !strings.HasPrefix(absTarget, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path in archive: %s", entryName)
	}
	return absTarget, nil
}
