package pkg

import (
	"io"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiskStore is the blob-store contract backed by a local directory. Saved
// files are served back under BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Wrap(ErrUpload, "could not create upload directory")
	}
	return &DiskStore{Dir: dir, BaseURL: baseURL}, nil
}

// Save writes the upload under a fresh name, keeping only the original
// extension, and returns the retrievable URI.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	fname := primitive.NewObjectID().Hex() + filepath.Ext(name)
	f, err := os.Create(filepath.Join(s.Dir, fname))
	if err != nil {
		return "", Wrap(ErrUpload, "could not store file")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", Wrap(ErrUpload, "could not store file")
	}
	return s.BaseURL + "/" + fname, nil
}
