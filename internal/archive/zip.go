// Package archive writes compressed archives atomically.
//
// Archives are built in a temporary file beside the destination, flushed,
// fsynced and closed, then renamed into place. A returned path therefore
// always names a complete, closed file, and a failed write leaves nothing
// behind in the destination directory.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ErrPathEscape is returned when a resolved path falls outside its directory.
var ErrPathEscape = errors.New("path escapes destination directory")

// Entry is one file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// WriteZip writes entries, in order, to a zip file at path using maximum
// Deflate compression. The parent directory is created if absent. modified
// is stamped on every entry so identical input yields identical archives.
func WriteZip(path string, entries []Entry, modified time.Time) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*.zip")
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

// EnsureWithin checks that path, once cleaned and made absolute, lies inside
// dir. It returns the absolute path.
func EnsureWithin(dir, path string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return absPath, nil
}
