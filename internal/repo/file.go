package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// FileKV keeps every entry in one JSON object on disk. Writes go to a
// temporary file that is renamed over the original, so readers never observe
// a partially written file.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV constructs a FileKV at path. The file and its directory are
// created on the first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", fmt.Errorf("repo.FileKV.Get: %w", err)
	}
	v, ok := data[key]
	if !ok {
		return "", fmt.Errorf("repo.FileKV.Get %q: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

// Set implements KV.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}
	data[key] = value
	if err := f.write(data); err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}
	return nil
}

// Delete implements KV.
func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return fmt.Errorf("repo.FileKV.Delete: %w", err)
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	if err := f.write(data); err != nil {
		return fmt.Errorf("repo.FileKV.Delete: %w", err)
	}
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileKV) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".kv-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
