package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes r to the cache path for the given book, atomically via a
// temp file so a failed download never leaves a partial entry behind.
// Returns the final file path.
func (m *Manager) Store(bookUUID, filename string, r io.Reader) (string, error) {
	destPath := m.Path(bookUUID, filename)
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	tmpPath := destPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing to cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return destPath, nil
}
