package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/chrisdamba/menusight/internal/repositories"
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// KVRepository stores one file per key under baseDir/namespace. Each file is
// replaced atomically, so a crash leaves either the old or the new value.
type KVRepository struct {
	dir string
	mu  sync.RWMutex
}

func NewKVRepository(baseDir, namespace string) (*KVRepository, error) {
	if namespace == "" {
		namespace = "default"
	}
	if !safeKey.MatchString(namespace) {
		return nil, fmt.Errorf("invalid namespace %q", namespace)
	}
	dir := filepath.Join(baseDir, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &KVRepository{dir: dir}, nil
}

func (r *KVRepository) path(key string) (string, error) {
	if !safeKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repositories.ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *KVRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := r.path(key)
		if err != nil {
			return err
		}
		if err := writeAtomically(p, value); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}

func (r *KVRepository) DeleteAll(ctx context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := r.path(key)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (r *KVRepository) Close() error { return nil }

func writeAtomically(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
