package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"
)

// FileStore keeps one file per key inside a directory.
type FileStore struct {
	dir string
}

// OpenFile opens (creating if needed) a file-backed store in dir.
func OpenFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("prefs dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Data implements Store.
func (s *FileStore) Data(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read pref %s: %w", key, err)
	}
	return data, nil
}

// Set implements Store. The value is written to a temp file and renamed
// over the old one, so readers see either the old or the new value.
func (s *FileStore) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	path := s.path(key)
	if err := atomic.WriteFile(path, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("write pref %s: %w", key, err)
	}
	// atomic.WriteFile leaves new files with the temp file's mode.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod pref %s: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *FileStore) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove pref %s: %w", key, err)
	}
	return nil
}

// Keys implements Store.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read prefs dir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !ValidKey(entry.Name()) {
			continue
		}
		keys = append(keys, entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}
