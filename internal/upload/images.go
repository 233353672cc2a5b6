// Package upload stores product images on local disk and hands back a
// reference (the stored file name) that the catalog keeps on the product.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

const DefaultMaxBytes = 16 << 20

var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type DiskStore struct {
	dir      string
	maxBytes int64
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

// Save copies r into a new randomly named file carrying filename's
// extension. Payloads over the size cap are rejected and nothing is kept.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", models.Invalid("image", "must be a png, jpg, jpeg, gif or webp file")
	}

	ref := uuid.NewString() + ext
	path := filepath.Join(s.dir, ref)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("close image: %w", closeErr)
	case n == 0:
		_ = os.Remove(path)
		return "", models.Invalid("image", "file is empty")
	case n > s.maxBytes:
		_ = os.Remove(path)
		return "", models.Invalid("image", fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}
	return ref, nil
}

// Remove deletes a stored image. A missing file is not an error.
func (s *DiskStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	if ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return fmt.Errorf("invalid image reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
