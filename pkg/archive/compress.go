package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/zarclabs/zarc/pkg/preflight"
	"github.com/zarclabs/zarc/pkg/zlog"
)

// CompressFile compresses the file at inputPath into outputPath using the
// given format and level. Both paths are validated before any bytes are
// written; the input must exist and the output must not.
func CompressFile(ctx context.Context, inputPath, outputPath string, format Format, level Level) error {
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

	zlog.Info("compressing file", "input", inputPath, "output", outputPath, "format", format, "level", level)

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat input file %s: %w", inputPath, err)
	}

	// The whole input is read up front. Target file sizes make this
	// acceptable and it keeps the per-format writers trivial.
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", inputPath, err)
	}

	entryName := filepath.Base(inputPath)
	if err := writeAtomic(outputPath, func(f *os.File) error {
		return writeCompressed(f, data, entryName, info, format, level)
	}); err != nil {
		return err
	}

	zlog.Info("compression complete", "output", outputPath)
	return nil
}

func writeCompressed(f *os.File, data []byte, entryName string, info os.FileInfo, format Format, level Level) error {
	switch format {
	case Gzip:
		gw, err := gzip.NewWriterLevel(f, int(level))
		if err != nil {
			return fmt.Errorf("failed to create gzip writer: %w", err)
		}
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("gzip write failed: %w", err)
		}
		return gw.Close()
	case Xz:
		cfg := xz.WriterConfig{DictCap: xzDictCap(level)}
		xw, err := cfg.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := xw.Write(data); err != nil {
			return fmt.Errorf("xz write failed: %w", err)
		}
		return xw.Close()
	case Bzip2:
		bw, err := bzip2.NewWriter(f, &bzip2.WriterConfig{Level: int(level)})
		if err != nil {
			return fmt.Errorf("failed to create bzip2 writer: %w", err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("bzip2 write failed: %w", err)
		}
		return bw.Close()
	case Zip:
		return writeZipEntry(f, entryName, data, info, level)
	case Tar:
		// tar is a plain container; the level is accepted but has no effect.
		return writeTarEntry(f, entryName, data, info)
	case Zst:
		// Placeholder: raw byte copy, no Zstandard framing. See Format docs.
		_, err := f.Write(data)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// xzDictCap maps the 1-9 preset onto the dictionary capacities used by the
// reference xz presets; ulikunitz/xz exposes the dictionary size rather than
// a preset knob.
func xzDictCap(level Level) int {
	caps := [...]int{
		1 << 20, 2 << 20, 4 << 20, 4 << 20, 8 << 20,
		8 << 20, 16 << 20, 32 << 20, 64 << 20,
	}
	return caps[level-1]
}
