// Package prefs is a small key-value preferences store.
//
// Each key holds one opaque value that is always replaced whole. Three
// backends are available:
//
//   - file: a directory with one file per key (the default)
//   - sqlite: a single database file with a prefs table
//   - memory: process-local, nothing survives exit
package prefs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrNotFound is returned by Data when the key holds no value.
var ErrNotFound = errors.New("prefs: key not found")

// ErrInvalidKey is returned for keys outside [A-Za-z0-9._-].
var ErrInvalidKey = errors.New("prefs: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store is a key-value preferences store.
type Store interface {
	// Data returns the value stored under key, or ErrNotFound.
	Data(key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys lists stored keys in lexical order.
	Keys() ([]string, error)
	Close() error
}

// Backends lists the backend names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open opens the named backend rooted at path. path is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend %q (expected %s)", backend, strings.Join(Backends(), "|"))
	}
}

// Location returns where s keeps its data, or "" for the memory backend.
func Location(s Store) string {
	switch s := s.(type) {
	case *FileStore:
		return s.Dir()
	case *SQLiteStore:
		return s.Path()
	default:
		return ""
	}
}

// ValidKey reports whether key may be used with any backend.
func ValidKey(key string) bool {
	return key != "." && key != ".." && keyPattern.MatchString(key)
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
