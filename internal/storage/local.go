package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps uploads in a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", abs, err)
	}
	return &Local{dir: abs}, nil
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := l.resolve(name)
	if err != nil {
		return "", err
	}
	// O_EXCL: a name collision is a bug, never an overwrite.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("storage: close %s: %w", name, err)
	}
	return path, nil
}

func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	path, err := l.resolve(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (l *Local) Remove(_ context.Context, path string) error {
	path, err := l.resolve(filepath.Base(path))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Local) resolve(name string) (string, error) {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("storage: invalid file name %q", name)
	}
	return filepath.Join(l.dir, name), nil
}
