package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("empty file")

// Stored describes a file written by Storage.Save.
type Stored struct {
	// RelPath is relative to the static root with forward slashes, ready for a /static/ URL.
	RelPath  string
	AbsPath  string
	MimeType string
	Size     int64
}

// Storage writes uploads below the static root so they are served at /static/.
type Storage struct {
	staticDir string
	uploadDir string
	unique    bool
}

// New creates the upload directory if needed. The upload directory must sit
// inside the static root. When unique is set every stored name gets a random
// prefix so a second upload never replaces the first.
func New(staticDir, uploadDir string, unique bool) (*Storage, error) {
	s := &Storage{staticDir: staticDir, uploadDir: uploadDir, unique: unique}
	if _, err := s.relative(uploadDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return s, nil
}

// Save copies the uploaded file to disk under its sanitized name.
func (s *Storage) Save(fh *multipart.FileHeader) (*Stored, error) {
	if fh == nil || fh.Filename == "" {
		return nil, ErrEmptyFile
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := SanitizeFilename(fh.Filename)
	switch {
	case name == "":
		name = uuid.NewString()
	case s.unique:
		name = uuid.NewString()[:8] + "_" + name
	}

	abs := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(abs)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(abs)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	if size == 0 {
		os.Remove(abs)
		return nil, ErrEmptyFile
	}

	mtype, err := mimetype.DetectFile(abs)
	mime := "application/octet-stream"
	if err == nil {
		mime = mtype.String()
	}

	rel, err := s.relative(abs)
	if err != nil {
		os.Remove(abs)
		return nil, err
	}
	return &Stored{RelPath: rel, AbsPath: abs, MimeType: mime, Size: size}, nil
}

func (s *Storage) relative(abs string) (string, error) {
	root, err := filepath.Abs(s.staticDir)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("upload dir %s is outside static dir %s", s.uploadDir, s.staticDir)
	}
	return filepath.ToSlash(rel), nil
}

// Remove deletes a stored file by its static-relative path. Missing files are ignored.
func (s *Storage) Remove(rel string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("refusing to remove %q", rel)
	}
	err := os.Remove(filepath.Join(s.staticDir, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
