// Package storage keeps donor exports on the local filesystem so operators
// can collect dated snapshots from cron runs of the admin CLI.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportStore writes CSV snapshots under a root directory.
type ExportStore struct {
	root string
}

// NewExportStore creates root when it does not exist.
func NewExportStore(root string) (*ExportStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: export directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure export directory: %w", err)
	}
	return &ExportStore{root: root}, nil
}

// Root returns the configured directory.
func (s *ExportStore) Root() string { return s.root }

// SnapshotKey names an export taken at t, e.g. donors/2026/10/donors-20261018T150405Z.csv.
func SnapshotKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("donors/%04d/%02d/donors-%s.csv", t.Year(), int(t.Month()), t.Format("20060102T150405Z"))
}

// Save streams write into key. The file only appears under its final name
// once write succeeds; a failed export leaves nothing behind.
func (s *ExportStore) Save(ctx context.Context, key string, write func(io.Writer) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".export-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("storage: publish export: %w", err)
	}
	return full, nil
}

// sanitizeKey normalizes a key and prevents escaping the root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimLeft(strings.TrimPrefix(key, "./"), "/")
	cleaned := strings.ReplaceAll(filepath.Clean(key), "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
