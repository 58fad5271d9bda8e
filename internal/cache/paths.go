// Package cache keeps downloaded book content on disk so the open
// command does not re-fetch text the user already has.
package cache

import (
	"os"
	"path/filepath"
)

// Manager handles the local content cache.
type Manager struct {
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Path returns the cache path for a book's content file.
// Layout: <baseDir>/<bookUUID>/<filename>
func (m *Manager) Path(bookUUID, filename string) string {
	return filepath.Join(m.baseDir, bookUUID, filename)
}

// Exists reports whether the cached file exists.
func (m *Manager) Exists(bookUUID, filename string) bool {
	_, err := os.Stat(m.Path(bookUUID, filename))
	return err == nil
}

// Remove deletes everything cached for a book. Removing an absent entry
// is a no-op.
func (m *Manager) Remove(bookUUID string) error {
	err := os.RemoveAll(filepath.Join(m.baseDir, bookUUID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Size returns the total bytes cached under baseDir.
func (m *Manager) Size() (int64, error) {
	var total int64
	err := filepath.Walk(m.baseDir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return total, err
}
