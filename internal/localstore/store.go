// Package localstore persists client-side state between runs: a key/value "local storage"
// and a cookie jar holding the mirrored session cookie.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known local storage keys.
const (
	KeyToken = "auth_token"
	KeyUser  = "stackoverflow_user"
)

// Store is a string key/value store with local-storage semantics.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores value under key.
	Set(key, value string) error
	// Remove deletes the given keys; missing keys are ignored.
	Remove(keys ...string) error
}

// FileStore keeps all keys in one JSON file, rewritten on every change.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

var _ Store = (*FileStore)(nil)

// OpenFile loads (or lazily creates) the store at path.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: map[string]string{}}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, err
	}
	if len(b) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(b, &fs.data); err != nil {
		return nil, fmt.Errorf("localstore: parse %s: %w", path, err)
	}
	return fs, nil
}

// Get returns the value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key and flushes the file.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flush()
}

// Remove deletes keys and flushes the file.
func (s *FileStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flush()
}

func (s *FileStore) flush() error {
	return writeJSON(s.path, s.data)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore { return &MemoryStore{data: map[string]string{}} }

// Get returns the value for key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Remove deletes keys.
func (s *MemoryStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// writeJSON writes v to path via a temp file so readers never see a torn file.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
