package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "docs"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ref, err := s.Save("aadhaar.PDF", strings.NewReader("scan bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref == "" || ref == "aadhaar.PDF" {
		t.Fatalf("expected a generated reference, got %q", ref)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Fatalf("extension not preserved: %q", ref)
	}
	f, err := s.Open(ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "scan bytes" {
		t.Fatalf("content = %q", b)
	}
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if _, err := s.Save("photo.jpg", strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, ref := range []string{"", "../secret", "a/b.pdf"} {
		if _, err := s.Open(ref); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("Open(%q): expected ErrNotExist, got %v", ref, err)
		}
	}
}

func TestSaveStripsOddExtensions(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ref, err := s.Save("weird.p df", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(ref, " ") || strings.Contains(ref, "/") {
		t.Fatalf("unsafe reference %q", ref)
	}
}
