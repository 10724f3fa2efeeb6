package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultExtension marks database files when no extensions are configured.
const DefaultExtension = ".db"

// DatabaseInfo describes a database file found in the data directory.
type DatabaseInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ListDatabases returns the names of files in dir whose name ends with one of
// exts, in directory listing order. Subdirectories are skipped.
func ListDatabases(dir string, exts ...string) ([]string, error) {
	infos, err := StatDatabases(dir, exts...)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// StatDatabases is ListDatabases with file size and modification time.
func StatDatabases(dir string, exts ...string) ([]DatabaseInfo, error) {
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	dbs := []DatabaseInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !HasExtension(entry.Name(), exts) {
			continue
		}

		info := DatabaseInfo{Name: entry.Name()}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
			info.ModTime = fi.ModTime()
		}
		dbs = append(dbs, info)
	}

	return dbs, nil
}

// HasExtension reports whether name ends with one of exts.
func HasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ResolveDatabase joins a database file name selected by the user with the
// data directory. Names must be plain file names ending in one of exts.
func ResolveDatabase(dir, name string, exts ...string) (string, error) {
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}

	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidDatabase, name)
	case strings.ContainsAny(name, `/\`), filepath.Base(name) != name:
		return "", fmt.Errorf("%w: %q must not contain a path", ErrInvalidDatabase, name)
	case !HasExtension(name, exts):
		return "", fmt.Errorf("%w: %q does not end with %s", ErrInvalidDatabase, name, strings.Join(exts, ", "))
	}

	return filepath.Join(dir, name), nil
}
