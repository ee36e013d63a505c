// Package file is a store.Store that keeps one JSON document per key on disk.
//
// Files are named by the SHA-256 of the key and sharded by its first two hex
// characters, so any valid key maps to a safe path. Each file wraps the value
// with its key, which is how List recovers key names.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/journey/pkg/cache"
	"github.com/matzehuels/journey/pkg/store"
)

// Store is a directory of JSON documents.
type Store struct {
	dir string
	mu  sync.RWMutex
}

type document struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	raw, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", key, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

// Set writes data, which must be valid JSON, through a temporary file and a
// rename.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("file store: value for %s is not valid JSON", key)
	}
	encoded, err := json.Marshal(document{Key: key, Value: data})
	if err != nil {
		return fmt.Errorf("file store: encode %s: %w", key, err)
	}

	path := s.path(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".journey-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List walks the directory and reads the key of every document. Unreadable
// files are skipped.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var doc struct {
			Key string `json:"key"`
		}
		if json.Unmarshal(raw, &doc) == nil && doc.Key != "" {
			keys = append(keys, doc.Key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file store: list: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) path(key string) string {
	hash := cache.Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

var _ store.Store = (*Store)(nil)
