package osfilesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	path := filepath.Join(tempDir(t), "frame-1.pgm")

	if err := fs.WriteFile(path, []byte("P5\n1 1\n255\n\x80")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "P5\n1 1\n255\n\x80" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFileSystem_WriteFileOverwrites(t *testing.T) {
	fs := New()
	path := filepath.Join(tempDir(t), "frame-1.pgm")

	if err := fs.WriteFile(path, []byte("a much longer first payload")); err != nil {
		t.Fatalf("first WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(path, []byte("short")); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "short" {
		t.Errorf("expected truncated content, got %q", data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	path := filepath.Join(tempDir(t), "a", "b", "frame-1.pgm")

	if err := fs.WriteFile(path, []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_WriteFileIntoMissingRootFails(t *testing.T) {
	fs := New()
	dir := tempDir(t)

	// A regular file cannot act as a parent directory.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(filepath.Join(blocker, "frame-1.pgm"), []byte("x")); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestFileSystem_Open(t *testing.T) {
	fs := New()
	path := filepath.Join(tempDir(t), "input.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if _, err := f.Seek(4, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	buf := make([]byte, 3)
	if _, err := io.ReadFull(f, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf) != "456" {
		t.Errorf("expected 456, got %q", buf)
	}
}

func TestFileSystem_OpenMissing(t *testing.T) {
	fs := New()
	if _, err := fs.Open(filepath.Join(tempDir(t), "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSystem_MkdirAllAndExists(t *testing.T) {
	fs := New()
	path := filepath.Join(tempDir(t), "out", "frames")

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected directory to be absent")
	}

	if err := fs.MkdirAll(path); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	exists, err = fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected directory to exist")
	}
}
