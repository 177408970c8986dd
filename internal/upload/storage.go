package upload

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/blake2b"
)

// Stored describes a file written by Storage.
type Stored struct {
	Name   string
	Size   int64
	Digest string
}

// Storage writes accepted uploads into a single directory.
type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// storedName is a fresh uuid, followed by a slug of the client's file name
// when one survives slugging.
func storedName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	s := slug.Make(base)
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return uuid.NewString() + ".pdf"
	}
	return uuid.NewString() + "-" + s + ".pdf"
}

const maxSlugLen = 48

// Save copies at most MaxFileSize+1 bytes of r to a new file and returns its
// BLAKE2b-256 digest. Oversized content is removed and reported as
// ErrTooLarge.
func (s *Storage) Save(original string, r io.Reader) (*Stored, error) {
	name := storedName(original)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("init digest: %w", err)
	}

	n, err := io.Copy(io.MultiWriter(f, h), io.LimitReader(r, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return nil, ErrTooLarge
	}

	return &Stored{Name: name, Size: n, Digest: hex.EncodeToString(h.Sum(nil))}, nil
}

// Remove deletes a stored file, used when a duplicate is detected after
// writing.
func (s *Storage) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Open returns a reader for a stored file.
func (s *Storage) Open(name string) (*os.File, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(name)))
}
