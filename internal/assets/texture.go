package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// imageExtensions is the page image search order.
var imageExtensions = []string{".png", ".tga", ".jpg", ".jpeg", ".bmp", ".webp"}

// ResolveImage finds the actual file for a page image path by trying known
// image extensions. exists reports whether a candidate is present. Returns
// the resolved path and true if found.
func ResolveImage(name string, exists func(string) bool) (string, bool) {
	lower := strings.ToLower(name)

	// If the path already has a recognized extension, check directly
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			if exists(name) {
				return name, true
			}
			// Also try stripping and re-adding extensions
			return resolveWithExtensions(name[:len(name)-len(ext)], exists)
		}
	}

	// No extension or unrecognized extension — try all
	return resolveWithExtensions(name, exists)
}

func resolveWithExtensions(base string, exists func(string) bool) (string, bool) {
	for _, ext := range imageExtensions {
		candidate := base + ext
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Texture is the handle installed in atlas.Page.Texture by the loaders in
// this package.
type Texture struct {
	ID    uuid.UUID
	Path  string
	Image image.Image
}

// DecodeImage decodes a page image, choosing the decoder by extension.
// TGA carries no magic number, so sniffing with image.Decode is not used.
func DecodeImage(name string, r io.Reader) (image.Image, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return png.Decode(r)
	case ".tga":
		return tga.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".webp":
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("unsupported image type: %s", name)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
