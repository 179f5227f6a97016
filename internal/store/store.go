// Package store persists user configuration (config.json) and the host
// input values the picker writes (a SQLite table keyed by field name).
package store

import (
	"os"
	"path/filepath"
	"strings"
)

const sqliteFileName = "fields.sqlite"

// Store is a data directory holding the field database.
type Store struct {
	Dir string
}

// DefaultDir is the data directory used when --dir is not given: the
// config directory itself.
func DefaultDir() (string, error) {
	return ConfigDir()
}

// Open returns a Store rooted at dir, falling back to DefaultDir.
func Open(dir string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Store{}, err
		}
		dir = d
	}
	return Store{Dir: filepath.Clean(dir)}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}
