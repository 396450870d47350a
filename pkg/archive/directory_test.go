package archive_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zarclabs/zarc/pkg/archive"
)

// createTestTree builds a small directory tree and returns its root plus the
// expected relative path -> content mapping.
func createTestTree(t *testing.T, baseDir string) (string, map[string][]byte) {
	t.Helper()

	root := filepath.Join(baseDir, "tree")
	files := map[string][]byte{
		"a.txt":            []byte("alpha"),
		"sub/b.txt":        []byte("bravo"),
		"sub/deep/c.bin":   {0x00, 0x01, 0x02, 0xff},
		"sub/deep/d.empty": {},
	}

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create test dir: %v", err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}
	return root, files
}

func TestCompressDirRoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		format archive.Format
		suffix string
	}{
		{"Tar", archive.Tar, ".tar"},
		{"Zip", archive.Zip, ".zip"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tempDir := t.TempDir()
			root, files := createTestTree(t, tempDir)
			archivePath := filepath.Join(tempDir, "tree"+tc.suffix)
			restoredDir := filepath.Join(tempDir, "restored")

			if err := archive.CompressDir(context.Background(), root, archivePath, tc.format); err != nil {
				t.Fatalf("CompressDir failed: %v", err)
			}
			if err := archive.Decompress(context.Background(), archivePath, restoredDir); err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}

			// Same set of relative paths, same per-file content.
			for rel, want := range files {
				got, err := os.ReadFile(filepath.Join(restoredDir, filepath.FromSlash(rel)))
				if err != nil {
					t.Errorf("missing restored file %s: %v", rel, err)
					continue
				}
				if !bytes.Equal(got, want) {
					t.Errorf("restored %s differs from original", rel)
				}
			}

			restoredCount := 0
			err := filepath.WalkDir(restoredDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					restoredCount++
				}
				return nil
			})
			if err != nil {
				t.Fatalf("failed to walk restored tree: %v", err)
			}
			if restoredCount != len(files) {
				t.Errorf("restored %d files, want %d", restoredCount, len(files))
			}
		})
	}
}

func TestCompressDirZstConcatenation(t *testing.T) {
	tempDir := t.TempDir()
	root, _ := createTestTree(t, tempDir)
	output := filepath.Join(tempDir, "tree.zst")

	if err := archive.CompressDir(context.Background(), root, output, archive.Zst); err != nil {
		t.Fatalf("CompressDir failed: %v", err)
	}

	// The zst placeholder flattens the tree: raw bytes of every file in
	// lexical walk order, no structure preserved.
	// sub/deep/d.empty contributes nothing.
	var want []byte
	want = append(want, []byte("alpha")...)     // a.txt
	want = append(want, []byte("bravo")...)     // sub/b.txt
	want = append(want, 0x00, 0x01, 0x02, 0xff) // sub/deep/c.bin

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("concatenated output = %q, want %q", got, want)
	}
}

func TestCompressDirRejectsSingleStreamFormats(t *testing.T) {
	tempDir := t.TempDir()
	root, _ := createTestTree(t, tempDir)

	for _, format := range []archive.Format{archive.Gzip, archive.Xz, archive.Bzip2, archive.Format("rar")} {
		output := filepath.Join(tempDir, "out."+string(format))

		err := archive.CompressDir(context.Background(), root, output, format)
		if !errors.Is(err, archive.ErrUnsupportedDirFormat) {
			t.Errorf("CompressDir(%q): expected ErrUnsupportedDirFormat, got: %v", format, err)
		}
		if errors.Is(err, archive.ErrUnsupportedFormat) {
			t.Errorf("CompressDir(%q): directory rejection must be distinct from ErrUnsupportedFormat", format)
		}
		if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
			t.Errorf("CompressDir(%q): output file exists after rejection", format)
		}
	}
}

func TestCompressDirPreservesSymlinks(t *testing.T) {
	tempDir := t.TempDir()
	root, _ := createTestTree(t, tempDir)
	if err := os.Symlink("a.txt", filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("cannot create symlinks on this platform: %v", err)
	}

	archivePath := filepath.Join(tempDir, "tree.tar")
	restoredDir := filepath.Join(tempDir, "restored")

	if err := archive.CompressDir(context.Background(), root, archivePath, archive.Tar); err != nil {
		t.Fatalf("CompressDir failed: %v", err)
	}
	if err := archive.Decompress(context.Background(), archivePath, restoredDir); err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	target, err := os.Readlink(filepath.Join(restoredDir, "link.txt"))
	if err != nil {
		t.Fatalf("restored link.txt is not a symlink: %v", err)
	}
	if target != "a.txt" {
		t.Errorf("restored link target = %q, want %q", target, "a.txt")
	}
}
