package images

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists product images on disk keyed by product id. The image must
// be written post-insert since the id has to exist first.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) filename(productID uint) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.jpg", productID))
}

func (s *Store) Save(productID uint, data []byte) error {
	return os.WriteFile(s.filename(productID), data, 0o644)
}

// Remove deletes the stored image; a missing file is not an error, products
// without images are common.
func (s *Store) Remove(productID uint) error {
	err := os.Remove(s.filename(productID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
