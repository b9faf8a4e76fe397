// Package storage saves uploaded product photos on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for content types other than JPEG, PNG and
// WebP.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge is returned when the upload exceeds the size ceiling.
var ErrTooLarge = errors.New("image too large")

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Extension returns the file extension for an allowed content type.
func Extension(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := extensions[ct]
	return ext, ok
}

// ImageStore writes images into Dir and serves them under URLPrefix.
type ImageStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
	newName   func() string
}

// NewImageStore returns a store that names files with random UUIDs.
func NewImageStore(dir, urlPrefix string, maxBytes int64) *ImageStore {
	return &ImageStore{
		Dir:       dir,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
		MaxBytes:  maxBytes,
		newName:   func() string { return uuid.NewString() },
	}
}

// Save checks the declared content type before reading anything, reads at
// most MaxBytes+1 bytes and only then writes the file.  It returns the
// public URL of the stored image.
func (s *ImageStore) Save(contentType string, r io.Reader) (string, error) {
	ext, ok := Extension(contentType)
	if !ok {
		return "", ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return "", ErrTooLarge
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := s.newName() + "." + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}
