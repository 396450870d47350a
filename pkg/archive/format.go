// Package archive implements the compression and extraction operations:
// single-file compression, directory archiving and suffix-dispatched
// decompression across the supported container and codec formats.
package archive

import (
	"errors"
	"fmt"

	"github.com/zarclabs/zarc/pkg/util"
)

// Format identifies the compression codec or archive container for an
// operation.
type Format string

const (
	Gzip  Format = "gz"
	Xz    Format = "xz"
	Bzip2 Format = "bz2"
	Zip   Format = "zip"
	Tar   Format = "tar"

	// Zst is accepted for compatibility but performs an identity byte copy
	// rather than real Zstandard compression. Its output must not be fed to
	// a zstd decoder.
	Zst Format = "zst"
)

var (
	// ErrUnsupportedFormat reports a format tag or filename suffix that no
	// operation recognizes.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnsupportedDirFormat reports a format that is valid for single files
	// but cannot hold a directory tree, so callers can tell "bad format" from
	// "format doesn't support directories".
	ErrUnsupportedDirFormat = errors.New("unsupported format for directories")
)

var formatToString = map[Format]string{
	Gzip:  "gz",
	Xz:    "xz",
	Bzip2: "bz2",
	Zip:   "zip",
	Tar:   "tar",
	Zst:   "zst",
}

var stringToFormat map[string]Format

func init() {
	// Inverting the map at runtime keeps the two lookup directions in sync.
	stringToFormat = util.InvertMap(formatToString)
}

func (f Format) String() string {
	if s, ok := formatToString[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown_format(%s)", string(f))
}

// ParseFormat parses a format tag from the command line.
func ParseFormat(s string) (Format, error) {
	if f, ok := stringToFormat[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be gz, xz, bz2, zip, tar or zst)", ErrUnsupportedFormat, s)
}
