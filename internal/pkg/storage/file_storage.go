package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage writes uploads into a single directory under generated
// names. The client-supplied filename never touches the filesystem, so
// two users uploading "notes.txt" cannot clobber each other and a name
// like "../x" cannot escape the directory.
type FileStorage interface {
	// Save stores the upload and returns the generated key it lives under.
	Save(originalName string, src io.Reader) (string, error)
	Remove(key string) error
}

type diskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskStorage{dir: dir}, nil
}

func (s *diskStorage) Save(originalName string, src io.Reader) (string, error) {
	key := uuid.New().String() + filepath.Ext(filepath.Base(originalName))

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return key, nil
}

func (s *diskStorage) Remove(key string) error {
	// Key is always server-generated, but keep it inside the directory anyway.
	return os.Remove(filepath.Join(s.dir, filepath.Base(key)))
}
