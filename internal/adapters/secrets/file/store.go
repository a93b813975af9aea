package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/novelpia-prompt-maker/internal/adapters/secrets"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
)

const (
	backend = "file"

	storeDirMode  = 0o700
	secretFileMod = 0o600
)

// Store keeps each secret in its own file under root, with the key mapped
// to a relative path.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	path, err := s.locate(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return secrets.OpError(backend, "mkdir", key, err, "")
	}
	if err := os.WriteFile(path, []byte(value), secretFileMod); err != nil {
		return secrets.OpError(backend, "put", key, err, "")
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	path, err := s.locate(ctx, key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()

	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", secrets.NotFound(backend, key)
	case err != nil:
		return "", secrets.OpError(backend, "get", key, err, "")
	}

	return secrets.TrimValue(string(data)), nil
}

// Delete is idempotent: removing a missing secret succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.locate(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return secrets.OpError(backend, "delete", key, err, "")
	}

	return nil
}

// locate maps key to its file under root once the context is still live.
func (s *Store) locate(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := secrets.RelativePath(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}
