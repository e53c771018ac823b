// Package store persists named JSON documents on the local filesystem.
//
// Each collection is a single file under the data directory, replaced
// wholesale on every write. Writes go through a temp file and rename so a
// crash never leaves a half-written document. Writers are serialized per
// collection name; there are no transactions across collections, callers
// that touch two collections accept the inconsistency window between saves.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-errors"
)

// Store reads and writes JSON documents under a data directory.
type Store struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load decodes the named document into out. A missing file is not an error:
// out keeps its zero value so callers get their typed default.
func (s *Store) Load(name string, out any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to read document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to decode document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	return nil
}

// Save replaces the named document with v.
func (s *Store) Save(name string, v any) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	return s.save(name, v)
}

// save writes v to a temp file in the data directory and renames it over the
// document. Callers hold the collection lock.
func (s *Store) save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create data directory").
			WithTextCode("IO_ERROR")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.json")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create temp document").
			WithTextCode("IO_ERROR")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to write document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to flush document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.CategoryInternal, "failed to replace document").
			WithTextCode("IO_ERROR").
			WithMetadata(map[string]any{"collection": name})
	}

	return nil
}

// Update runs mutate over the current document under the collection lock and
// saves the result. If mutate returns an error nothing is written.
func (s *Store) Update(name string, out any, mutate func() error) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if err := s.Load(name, out); err != nil {
		return err
	}

	if err := mutate(); err != nil {
		return err
	}

	return s.save(name, out)
}
