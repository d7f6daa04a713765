package driver_test

import (
	"context"
	"path/filepath"
	"testing"

	"pyrite/internal/bytecode"
	"pyrite/internal/driver"
)

func TestTranslateDir(t *testing.T) {
	dir := t.TempDir()
	names := []string{"alpha", "beta", "gamma"}
	for _, name := range names {
		path := filepath.Join(dir, name+driver.FileExt)
		if err := bytecode.WriteFile(path, loadConstReturn(name)); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	results, err := driver.TranslateDir(context.Background(), dir, testOptions(), 2)
	if err != nil {
		t.Fatalf("translate dir: %v", err)
	}
	if len(results) != len(names) {
		t.Fatalf("got %d results, want %d", len(results), len(names))
	}
	// Files are visited in sorted order.
	for i, name := range names {
		if results[i].Result.Module.Name != name {
			t.Errorf("result %d is module %q, want %q", i, results[i].Result.Module.Name, name)
		}
	}
}

func TestTranslateDir_Empty(t *testing.T) {
	results, err := driver.TranslateDir(context.Background(), t.TempDir(), testOptions(), 0)
	if err != nil {
		t.Fatalf("translate dir: %v", err)
	}
	if results != nil {
		t.Fatalf("got %d results from an empty directory", len(results))
	}
}
