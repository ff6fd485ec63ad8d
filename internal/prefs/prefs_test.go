package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		BackendFile: func(t *testing.T) Store {
			s, err := OpenFile(filepath.Join(t.TempDir(), "prefs"))
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "state", "prefs.db"))
			require.NoError(t, err)
			return s
		},
		BackendMemory: func(t *testing.T) Store {
			return NewMemory()
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })

			_, err := s.Data("tasksKey")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("tasksKey", []byte("[]\n")))
			got, err := s.Data("tasksKey")
			require.NoError(t, err)
			assert.Equal(t, "[]\n", string(got))

			// whole-value replace
			require.NoError(t, s.Set("tasksKey", []byte(`[{"x":1}]`)))
			got, err = s.Data("tasksKey")
			require.NoError(t, err)
			assert.Equal(t, `[{"x":1}]`, string(got))

			require.NoError(t, s.Set("other.key", []byte{}))
			got, err = s.Data("other.key")
			require.NoError(t, err)
			assert.Empty(t, got)

			keys, err := s.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"other.key", "tasksKey"}, keys)

			require.NoError(t, s.Remove("tasksKey"))
			require.NoError(t, s.Remove("tasksKey"), "removing a missing key")
			_, err = s.Data("tasksKey")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })

			for _, key := range []string{"", ".", "..", "a/b", "../escape", "with space"} {
				assert.ErrorIs(t, s.Set(key, []byte("x")), ErrInvalidKey, "Set(%q)", key)
				_, err := s.Data(key)
				assert.ErrorIs(t, err, ErrInvalidKey, "Data(%q)", key)
				assert.ErrorIs(t, s.Remove(key), ErrInvalidKey, "Remove(%q)", key)
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tasksKey", []byte("payload")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Data("tasksKey")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestFileStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	s, err := OpenFile(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("tasksKey", []byte("[]\n")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o700))

	data, err := os.ReadFile(filepath.Join(dir, "tasksKey"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, "tasksKey"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"tasksKey"}, keys)
}

func TestMemoryStoreSetErr(t *testing.T) {
	s := NewMemory()
	boom := errors.New("disk full")
	s.SetErr = boom
	assert.ErrorIs(t, s.Set("tasksKey", []byte("x")), boom)
	_, err := s.Data("tasksKey")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend  string
		path     string
		location string
		wantErr  bool
	}{
		{backend: "file", path: filepath.Join(dir, "prefs"), location: filepath.Join(dir, "prefs")},
		{backend: "", path: filepath.Join(dir, "prefs-default"), location: filepath.Join(dir, "prefs-default")},
		{backend: "SQLite", path: filepath.Join(dir, "prefs.db"), location: filepath.Join(dir, "prefs.db")},
		{backend: "memory"},
		{backend: "plist", path: dir, wantErr: true},
		{backend: "file", path: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.location, Location(s))
			assert.NoError(t, s.Close())
		})
	}
}
