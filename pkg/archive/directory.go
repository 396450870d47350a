package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zarclabs/zarc/pkg/preflight"
	"github.com/zarclabs/zarc/pkg/util"
	"github.com/zarclabs/zarc/pkg/zlog"
)

// CompressDir archives every file under inputPath into a single artifact at
// outputPath. Only container formats can hold a tree: tar and zip preserve
// relative paths, while the zst placeholder concatenates the raw bytes of
// every file in walk order with no structure preserved (a documented
// limitation of the placeholder, not recoverable by extraction). The
// single-stream codecs gz, xz and bz2 are rejected.
func CompressDir(ctx context.Context, inputPath, outputPath string, format Format) error {
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

	zlog.Info("compressing directory", "input", inputPath, "output", outputPath, "format", format)

	var write func(f *os.File) error
	switch format {
	case Tar:
		write = func(f *os.File) error { return tarDirectory(ctx, f, inputPath) }
	case Zip:
		write = func(f *os.File) error { return zipDirectory(ctx, f, inputPath) }
	case Zst:
		write = func(f *os.File) error { return concatDirectory(ctx, f, inputPath) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDirFormat, format)
	}

	if err := writeAtomic(outputPath, write); err != nil {
		return err
	}

	zlog.Info("compression complete", "output", outputPath)
	return nil
}

// walkFiles visits every non-directory entry under root in lexical order,
// which keeps archive entry order deterministic between runs. fn receives the
// absolute path, the slash-normalized relative path used as the entry name,
// and the entry's file info.
func walkFiles(ctx context.Context, root string, fn func(absPath, relPath string, info os.FileInfo) error) error {
	return filepath.WalkDir(root, func(absPath string, d os.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info for %s: %w", absPath, err)
		}
		relPath, err := filepath.Rel(root, absPath)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", absPath, err)
		}
		return fn(absPath, util.NormalizePath(relPath), info)
	})
}

// concatDirectory implements the zst placeholder for directories: the raw
// bytes of every file are appended to the output in walk order.
func concatDirectory(ctx context.Context, f *os.File, root string) error {
	return walkFiles(ctx, root, func(absPath, relPath string, info os.FileInfo) error {
		zlog.Debug("appending file", "file", relPath)

		src, err := os.Open(absPath)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", absPath, err)
		}
		defer src.Close()

		_, err = io.Copy(f, src)
		return err
	})
}
