package worm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/wallyben/autoenroll-core/internal/archive"
	"github.com/wallyben/autoenroll-core/internal/model"
)

// ErrUnsafeRunID is returned for run ids that could address another directory.
var ErrUnsafeRunID = errors.New("unsafe run id")

// unsafeRunIDChars matches everything SanitizeRunID replaces.
var unsafeRunIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeRunID replaces every character other than ASCII letters, digits,
// '-' and '_' with '_'.
func SanitizeRunID(runID string) string {
	return unsafeRunIDChars.ReplaceAllString(runID, "_")
}

// CheckRunID rejects run ids that are empty or contain ".." or a path
// separator. It runs before sanitizing.
func CheckRunID(runID string) error {
	switch {
	case strings.TrimSpace(runID) == "":
		return fmt.Errorf("%w: empty", ErrUnsafeRunID)
	case strings.Contains(runID, ".."), strings.ContainsAny(runID, `/\`):
		return fmt.Errorf("%w: %q", ErrUnsafeRunID, runID)
	}
	return nil
}

// DefaultDir returns <cwd>/.worm/submissions.
func DefaultDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(wd, ".worm", "submissions"), nil
}

// Packager writes run archives. The zero value writes to DefaultDir.
type Packager struct {
	// Dir is the submissions directory. Empty means DefaultDir.
	Dir string
	// Now dates the archive name. Defaults to time.Now.
	Now func() time.Time
}

// ArchiveName returns the file name BuildZip uses for runID on day.
func ArchiveName(runID string, day time.Time) string {
	return fmt.Sprintf("NAERSA_%s_%s.zip", SanitizeRunID(runID), day.UTC().Format("2006-01-02"))
}

// BuildZip writes the control file for employees into
// <Dir>/NAERSA_<run>_<YYYY-MM-DD>.zip and returns the absolute path.
func (p Packager) BuildZip(runID string, employees []model.EmployeeRecord) (string, error) {
	if err := CheckRunID(runID); err != nil {
		return "", err
	}

	dir := p.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	safe := SanitizeRunID(runID)
	path, err := archive.EnsureWithin(dir, filepath.Join(dir, ArchiveName(runID, now)))
	if err != nil {
		return "", err
	}

	entry := archive.Entry{
		Name: "control_" + safe + ".csv",
		Data: []byte(ControlCSV(employees)),
	}
	if err := archive.WriteZip(path, []archive.Entry{entry}, now); err != nil {
		return "", err
	}
	return path, nil
}
