package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetPathAndClear(t *testing.T) {
	store := NewConfigStore("coincortex.json")

	abs := filepath.Join(t.TempDir(), "settings.json")
	resolved, err := store.SetPath(abs)
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if resolved != abs {
		t.Fatalf("resolved = %s, want %s", resolved, abs)
	}
	if store.Path() != abs {
		t.Fatalf("Path() = %s, want %s", store.Path(), abs)
	}

	if _, err := store.SetPath("  "); err != nil {
		t.Fatalf("SetPath clear: %v", err)
	}
	if store.Path() != "" {
		t.Fatalf("expected cleared path, got %s", store.Path())
	}
}

func TestResolveUsesBaseDirAndSticks(t *testing.T) {
	dir := t.TempDir()
	store := NewConfigStore("coincortex.json")

	resolved, err := store.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(dir, "coincortex.json")
	if resolved != want {
		t.Fatalf("resolved = %s, want %s", resolved, want)
	}

	// A later Resolve with a different base keeps the first answer.
	again, err := store.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if again != want {
		t.Fatalf("second resolve = %s, want %s", again, want)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := NewConfigStore("coincortex.json")
	path := filepath.Join(t.TempDir(), "nested", "coincortex.json")

	payload := []byte(`{"llm_provider":"openai"}`)
	if err := store.Write(path, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("read back %q, want %q", data, payload)
	}

	// The temp file must not survive the rename.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after Write")
	}
}

func TestWriteRejectsEmptyPath(t *testing.T) {
	store := NewConfigStore("coincortex.json")
	if err := store.Write(" ", []byte("{}")); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-path error, got %v", err)
	}
	if _, err := store.Read(""); err == nil {
		t.Fatal("expected error reading empty path")
	}
}

func TestDetectDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	store := NewConfigStore("coincortex.json")
	if _, ok := store.DetectDefault(); ok {
		t.Fatal("expected no default config in a fresh directory")
	}

	if err := os.WriteFile(filepath.Join(dir, "coincortex.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, ok := store.DetectDefault()
	if !ok {
		t.Fatal("expected the default config to be detected")
	}
	if filepath.Base(path) != "coincortex.json" {
		t.Fatalf("detected %s, want coincortex.json", path)
	}
}
