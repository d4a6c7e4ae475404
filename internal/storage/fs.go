package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FSStore persists artifacts on a local or mounted filesystem. The
// container maps to a directory under the root. Writes go through a temp
// file plus rename, so a reader never observes a mixture of old and new
// content.
type FSStore struct {
	root      string
	container string
	logger    *slog.Logger
}

func NewFSStore(root, container string, l *slog.Logger) *FSStore {
	return &FSStore{
		root:      root,
		container: container,
		logger:    l,
	}
}

// Put ensures the container exists, then commits data under name with
// unconditional overwrite. The returned locator is a file:// URI.
func (s *FSStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, s.container)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure container %q: %w", s.container, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to stage artifact: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to flush artifact: %w", err)
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to commit artifact: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact path: %w", err)
	}

	s.logger.Info("Artifact committed", "name", name, "bytes", len(data))
	return "file://" + filepath.ToSlash(abs), nil
}
