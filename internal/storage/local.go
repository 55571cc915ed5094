package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads to a directory served as static files.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewLocalStore creates dir when needed.
func NewLocalStore(dir, baseURL string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the upload and returns its public path.
func (s *LocalStore) Save(_ context.Context, upload Upload) (string, error) {
	name, err := validate(upload, s.maxBytes)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	written, err := io.Copy(f, limitedBody(upload, s.maxBytes))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxBytes > 0 && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(target)
		return "", err
	}
	return s.baseURL + "/" + name, nil
}

// Delete removes a file saved under this store's base URL.
func (s *LocalStore) Delete(_ context.Context, path string) error {
	name, ok := strings.CutPrefix(path, s.baseURL+"/")
	if !ok || name == "" || name != filepath.Base(name) {
		return ErrForeignPath
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
