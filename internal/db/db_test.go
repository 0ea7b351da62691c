package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM scroll_offsets").Scan(&count); err != nil {
		t.Errorf("table scroll_offsets: %v", err)
	}
	if d.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", d.Path())
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", path, err)
	}
	defer d.Close()

	if _, err := d.Exec("INSERT INTO scroll_offsets (key, scroll_top) VALUES ('k', 1.5)"); err != nil {
		t.Fatalf("insert: %v", err)
	}
}
