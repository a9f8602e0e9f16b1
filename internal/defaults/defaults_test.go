package defaults

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MINDSORT_DATA_DIR", dir)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}
}

func TestDatabasePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv("MINDSORT_DATA_DIR", dir)

	path, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if want := filepath.Join(dir, "data", DatabaseFile); path != want {
		t.Errorf("DatabasePath() = %q, want %q", path, want)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("database directory not created: %v", err)
	}
}
