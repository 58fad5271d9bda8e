package cache_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/readerctl/internal/cache"
)

func TestStore_WritesAndReports(t *testing.T) {
	dir := t.TempDir()
	m := cache.New(dir)

	if m.Exists("b1", "content.txt") {
		t.Fatal("Exists before Store")
	}

	path, err := m.Store("b1", "content.txt", strings.NewReader("chapter one"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if path != m.Path("b1", "content.txt") {
		t.Errorf("path = %q, want %q", path, m.Path("b1", "content.txt"))
	}
	if !m.Exists("b1", "content.txt") {
		t.Error("Exists after Store = false")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "chapter one" {
		t.Errorf("content = %q", data)
	}

	// No temp file left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}

func TestRemove(t *testing.T) {
	m := cache.New(t.TempDir())
	if _, err := m.Store("b1", "content.txt", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("b1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.Exists("b1", "content.txt") {
		t.Error("entry survived Remove")
	}
	// Removing again is a no-op.
	if err := m.Remove("b1"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestSize(t *testing.T) {
	m := cache.New(t.TempDir())
	if _, err := m.Store("b1", "a.txt", strings.NewReader("12345")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Store("b2", "b.txt", strings.NewReader("123")); err != nil {
		t.Fatal(err)
	}
	size, err := m.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 8 {
		t.Errorf("Size = %d, want 8", size)
	}
}

func TestSize_MissingDir(t *testing.T) {
	m := cache.New(filepath.Join(t.TempDir(), "nope"))
	size, err := m.Size()
	if err != nil || size != 0 {
		t.Errorf("Size = %d, %v; want 0, nil", size, err)
	}
}
