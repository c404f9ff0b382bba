// Package images stores item pictures as PNG files in a private directory.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/idilsaglam/mythings/internal/logging"
)

const (
	DirName = "images"
	ext     = ".png"
	// Maximum accepted source size (20MB)
	maxSourceSize = 20 << 20
)

var (
	ErrTooLarge    = errors.New("image too large")
	ErrInvalidName = errors.New("invalid image name")
)

// Info describes a stored image.
type Info struct {
	Width  int
	Height int
	Size   int64
}

type Store struct {
	dir string
	log *log.Logger
}

// New ensures dir exists with owner-only permissions.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir images: %w", err)
	}
	return &Store{dir: dir, log: logging.OrDiscard(logger, "images")}, nil
}

func (s *Store) Dir() string { return s.dir }

// cleanName keeps only the base name so a stored name never escapes dir.
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" || strings.HasPrefix(base, ".") {
		return "", ErrInvalidName
	}
	return base, nil
}

// Save decodes any supported raster image from r and writes it as PNG.
// A non-empty reuse overwrites that name, which keeps an edited item's
// image name stable; otherwise a fresh name is generated. A reused name
// without the .png extension is replaced by its .png twin.
func (s *Store) Save(r io.Reader, reuse string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSourceSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxSourceSize {
		return "", ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	name := uuid.NewString() + ext
	legacy := ""
	if reuse != "" {
		if name, err = cleanName(reuse); err != nil {
			return "", err
		}
		// Stored bytes are always PNG; a legacy name moves to its .png twin.
		if !strings.EqualFold(filepath.Ext(name), ext) {
			legacy = name
			name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	if legacy != "" {
		if err := os.Remove(filepath.Join(s.dir, legacy)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("remove legacy image %s: %v", legacy, err)
		}
	}
	s.log.Debugf("saved image %s (%dx%d)", name, img.Bounds().Dx(), img.Bounds().Dy())
	return name, nil
}

// SaveFile is Save for a path on disk, the terminal stand-in for a photo
// picker.
func (s *Store) SaveFile(path, reuse string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return s.Save(f, reuse)
}

// Load returns the stored bytes. A missing file is not an error: it
// returns false and the caller shows a placeholder.
func (s *Store) Load(name string) ([]byte, bool) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("read image %s: %v", clean, err)
		}
		return nil, false
	}
	return b, true
}

// Describe decodes the stored image for its dimensions.
func (s *Store) Describe(name string) (Info, bool) {
	b, ok := s.Load(name)
	if !ok {
		return Info{}, false
	}
	return describe(b)
}

func describe(b []byte) (Info, bool) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return Info{}, false
	}
	return Info{Width: img.Bounds().Dx(), Height: img.Bounds().Dy(), Size: int64(len(b))}, true
}

// Thumbnail returns a PNG scaled to width, keeping the aspect ratio.
// Images narrower than width are returned unchanged.
func (s *Store) Thumbnail(name string, width int) ([]byte, bool) {
	b, ok := s.Load(name)
	if !ok {
		return nil, false
	}
	return thumbnail(b, width)
}

func thumbnail(b []byte, width int) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, false
	}
	if width <= 0 || img.Bounds().Dx() <= width {
		return b, true
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// Remove deletes one image. Removing a missing image is fine.
func (s *Store) Remove(name string) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Sweep deletes stored images that are not in referenced and returns
// their names.
func (s *Store) Sweep(referenced map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ext) || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.log.Errorf("sweep %s: %v", name, err)
			continue
		}
		removed = append(removed, name)
	}
	if len(removed) > 0 {
		s.log.Infof("swept %d orphaned image(s)", len(removed))
	}
	return removed, nil
}
