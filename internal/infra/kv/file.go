package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists all entries in a single JSON document on disk, the
// server-side equivalent of the browser's localStorage. Every write
// rereads and rewrites the whole file; a single process is assumed to
// own it.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file-backed store rooted at path. The file is
// created lazily on first write.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("kv: file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("kv: create storage dir: %w", err)
		}
	}
	return &File{path: path}, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = json.RawMessage(value)
	return f.save(entries)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	delete(entries, key)
	return f.save(entries)
}

func (f *File) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("kv: read %s: %w", f.path, err)
	}

	entries := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("kv: parse %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *File) save(entries map[string]json.RawMessage) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("kv: encode entries: %w", err)
	}

	// Write-then-rename so a crash mid-write never truncates the store.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("kv: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kv: replace %s: %w", f.path, err)
	}
	return nil
}
