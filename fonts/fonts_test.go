package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCandidatesOrder(t *testing.T) {
	got := Candidates("fonts/X.ttf", "/base")
	if got[0] != filepath.Join("/base", "fonts/X.ttf") || got[1] != "fonts/X.ttf" {
		t.Fatalf("unexpected order: %q", got[:2])
	}
	if len(got) != 2+len(systemPaths) {
		t.Fatalf("system paths missing: %d", len(got))
	}
	abs := Candidates("/abs/X.ttf", "/base")
	if abs[0] != "/abs/X.ttf" || len(abs) != 1+len(systemPaths) {
		t.Fatalf("absolute src should be tried alone first: %q", abs)
	}
}

func TestLoadFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "fonts", "Fake.ttf")
	if err := os.WriteFile(want, []byte("not really a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, path, err := Load("fonts/Fake.ttf", dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if path != want || string(data) != "not really a font" {
		t.Fatalf("unexpected result path=%s data=%q", path, data)
	}
}

func TestLoadMissing(t *testing.T) {
	saved := systemPaths
	systemPaths = nil
	defer func() { systemPaths = saved }()

	_, _, err := Load("does/not/exist.ttf", t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
