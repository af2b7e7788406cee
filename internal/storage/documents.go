// Package storage is the document storage collaborator. Uploaded files are
// written to a local directory under a random stable name; only that
// reference is kept on the draft and the application, never the bytes.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyFile is returned when the uploaded file has no content.
var ErrEmptyFile = errors.New("empty file")

// DocumentStore saves uploads and returns stable references to them.
type DocumentStore interface {
	Save(originalName string, r io.Reader) (string, error)
}

// LocalStore writes documents under Dir. The returned reference is the
// stored filename, not a path, so the storage location can move without
// invalidating saved applications.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates the directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &LocalStore{Dir: dir}, nil
}

// Save writes the upload under a random name, preserving the original
// extension (lowercased, letters and digits only). Failures are returned to
// the caller; an upload error never silently drops the document.
func (s *LocalStore) Save(originalName string, r io.Reader) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate document name: %w", err)
	}
	name := hex.EncodeToString(buf) + safeExt(originalName)

	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	if n == 0 {
		_ = os.Remove(filepath.Join(s.Dir, name))
		return "", ErrEmptyFile
	}
	return name, nil
}

// Open returns the stored document for download. The reference must be a
// bare filename; anything resolving outside Dir is rejected.
func (s *LocalStore) Open(ref string) (*os.File, error) {
	if ref == "" || ref != filepath.Base(ref) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.Dir, ref))
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
