// Package uploads stores admin-uploaded images on local disk and backs the directory up nightly.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
)

const MaxImageSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png, gif and webp images are accepted")
	ErrTooLarge        = errors.New("image exceeds 10 MB")
	ErrNotFound        = errors.New("upload not found")
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type Store struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewStore(dir, publicBaseURL string) *Store {
	return &Store{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/"), now: time.Now}
}

func (s *Store) Dir() string { return s.dir }

// FileName turns an uploaded name into "<unix>_<slug><ext>". Repeated image extensions such as
// "photo.jpg.jpg" collapse to one.
func (s *Store) FileName(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !imageExts[ext] {
		return "", ErrUnsupportedType
	}
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	for imageExts[strings.ToLower(filepath.Ext(base))] {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	slug := models.Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return fmt.Sprintf("%d_%s%s", s.now().Unix(), slug, ext), nil
}

// Save writes the upload under the upload dir and returns its public URL.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrTooLarge
	}
	name, err := s.FileName(fh.Filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Sync(); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + name, nil
}

// Remove deletes an uploaded file by name. Path components in name are ignored.
func (s *Store) Remove(name string) error {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return fmt.Errorf("%w: bad file name", ErrUnsupportedType)
	}
	if err := os.Remove(filepath.Join(s.dir, base)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
