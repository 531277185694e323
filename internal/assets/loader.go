package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ernie/spine-atlas/internal/atlas"
)

// textureSet tracks the textures a loader has handed out.
type textureSet struct {
	live map[uuid.UUID]*Texture
}

// install decodes a page image and stores the texture on page. Pages whose
// descriptor omitted the size take it from the image.
func (s *textureSet) install(page *atlas.Page, path string, r io.Reader) error {
	img, err := DecodeImage(path, r)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	tex := &Texture{ID: uuid.New(), Path: path, Image: img}

	b := img.Bounds()
	if page.Width == 0 && page.Height == 0 {
		page.Width, page.Height = b.Dx(), b.Dy()
	} else if page.Width != b.Dx() || page.Height != b.Dy() {
		log.Warnf("page %s: descriptor size %dx%d, image is %dx%d",
			page.Name, page.Width, page.Height, b.Dx(), b.Dy())
	}

	if s.live == nil {
		s.live = make(map[uuid.UUID]*Texture)
	}
	s.live[tex.ID] = tex
	page.Texture = tex
	log.Debugf("loaded %s (%dx%d) as %s", path, b.Dx(), b.Dy(), tex.ID)
	return nil
}

// Unload releases a texture returned by Load.
func (s *textureSet) Unload(texture any) error {
	tex, ok := texture.(*Texture)
	if !ok {
		return fmt.Errorf("unload: unexpected texture %T", texture)
	}
	if _, ok := s.live[tex.ID]; !ok {
		return fmt.Errorf("unload: texture %s (%s) is not loaded", tex.ID, tex.Path)
	}
	delete(s.live, tex.ID)
	log.Debugf("unloaded %s", tex.Path)
	return nil
}

// Live returns the number of textures loaded and not yet unloaded.
func (s *textureSet) Live() int {
	return len(s.live)
}

// FileLoader loads page images from the filesystem.
type FileLoader struct {
	textureSet
}

// NewFileLoader returns a loader reading page images from disk.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load implements atlas.TextureLoader.
func (l *FileLoader) Load(page *atlas.Page, path string) error {
	resolved, ok := ResolveImage(filepath.FromSlash(path), fileExists)
	if !ok {
		return fmt.Errorf("page image %s not found", path)
	}
	f, err := os.Open(resolved)
	if err != nil {
		return fmt.Errorf("open page image: %w", err)
	}
	defer f.Close()
	return l.install(page, resolved, f)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadFile parses the descriptor at path. Page images are looked up in
// imagesDir, or next to the descriptor when imagesDir is empty.
func LoadFile(path, imagesDir string, loader atlas.TextureLoader, opts ...atlas.Option) (*atlas.Atlas, error) {
	rc, err := OpenDescriptor(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if imagesDir == "" {
		imagesDir = filepath.Dir(path)
	}
	a, err := atlas.Load(rc, filepath.ToSlash(imagesDir), loader, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return a, nil
}
