// Package yamlstore implements config.Store backed by a flat YAML file.
//
// The file format is flat key-value pairs. yaml.Marshal on
// map[string]string produces alphabetical key ordering, making the output
// deterministic and diff-friendly.
package yamlstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"cobweb/internal/config"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// YAMLStore implements config.Store using a YAML file on disk.
type YAMLStore struct {
	path string
	data map[string]string
}

// New creates a YAMLStore that reads from and writes to path.
// If the file exists it is loaded; if it does not exist the store
// starts empty and the file is created on the first Set call.
func New(path string) (*YAMLStore, error) {
	s := &YAMLStore{
		path: path,
		data: make(map[string]string),
	}
	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *YAMLStore) Path() string {
	return s.path
}

// Get returns the value for key and whether it was found.
func (s *YAMLStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set writes key=value and persists to disk.
func (s *YAMLStore) Set(key, value string) error {
	return s.update(func(data map[string]string) {
		data[key] = value
	})
}

// SetInMemory writes key=value to the in-memory store without persisting.
func (s *YAMLStore) SetInMemory(key, value string) {
	s.data[key] = value
}

// Unset removes key and persists to disk.
func (s *YAMLStore) Unset(key string) error {
	return s.update(func(data map[string]string) {
		delete(data, key)
	})
}

// All returns a copy of all key-value pairs.
func (s *YAMLStore) All() map[string]string {
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// update re-reads the file (so in-memory overrides are not persisted),
// applies fn to the on-disk values, writes them back atomically and then
// applies fn to the in-memory view as well.
func (s *YAMLStore) update(fn func(map[string]string)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	onDisk, err := readFile(s.path)
	if err != nil {
		return err
	}
	fn(onDisk)

	raw, err := yaml.Marshal(onDisk)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.Chmod(s.path, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fn(s.data)
	return nil
}

// readFromDisk reloads s.data from the config file on disk.
func (s *YAMLStore) readFromDisk() error {
	data, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

// Compile-time check that YAMLStore implements config.Store.
var _ config.Store = (*YAMLStore)(nil)
