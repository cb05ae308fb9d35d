package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/moviereview-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Store persists uploaded poster images and returns the reference path clients store on the movie.
type Store interface {
	Save(ctx context.Context, originalName string, body io.Reader) (string, error)
}

// DiskStore writes images beneath a local directory served at PublicPath.
type DiskStore struct {
	dir        string
	publicPath string
	maxBytes   int64
}

func NewDiskStore(cfg config.MediaConfig) (*DiskStore, error) {
	dir := strings.TrimSpace(cfg.UploadDir)
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	public := "/" + strings.Trim(cfg.PublicPath, "/")
	return &DiskStore{dir: dir, publicPath: public, maxBytes: cfg.MaxUploadBytes()}, nil
}

// Dir is the local directory files are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// PublicPath is the URL prefix returned file paths start with.
func (s *DiskStore) PublicPath() string {
	return s.publicPath
}

// Save sniffs the content type, rejects non-images and oversize bodies, and writes the file
// under a generated name. The original name only contributes a readable slug.
func (s *DiskStore) Save(ctx context.Context, originalName string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader := body
	if s.maxBytes > 0 {
		reader = io.LimitReader(body, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read upload")
	}
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeTooLarge, "image exceeds upload limit").
			WithDetails(map[string]any{"max_bytes": s.maxBytes})
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"detected": mt.String(), "allowed": allowedImageTypes})
	}

	name := buildFileName(originalName, mt.Extension())
	full := filepath.Join(s.dir, name)
	if err := writeFileAtomic(full, data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store image")
	}
	return path.Join(s.publicPath, name), nil
}

func buildFileName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	slug := sanitizeSlug(base)
	id := uuid.NewString()
	if slug == "" {
		return id + ext
	}
	return id + "-" + slug + ext
}

func sanitizeSlug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

func writeFileAtomic(full string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), full)
}
