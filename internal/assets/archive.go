package assets

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/ernie/spine-atlas/internal/atlas"
)

// ArchiveLoader loads descriptors and page images from a zip archive.
// Entry names are matched case-insensitively.
type ArchiveLoader struct {
	textureSet
	path  string
	r     *zip.ReadCloser
	index map[string]*zip.File // lowered name → entry
}

// OpenArchive opens a zip archive holding atlas descriptors and pages.
func OpenArchive(archivePath string) (*ArchiveLoader, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	index := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		index[strings.ToLower(f.Name)] = f
	}
	return &ArchiveLoader{path: archivePath, r: r, index: index}, nil
}

// Close closes the archive. Textures already loaded stay usable.
func (l *ArchiveLoader) Close() error {
	return l.r.Close()
}

// Descriptors lists the entries that look like atlas descriptors, sorted.
func (l *ArchiveLoader) Descriptors() []string {
	var names []string
	for _, f := range l.r.File {
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, ".atlas") || strings.HasSuffix(lower, ".atlas.txt") || strings.HasSuffix(lower, ".atlas.zst") {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (l *ArchiveLoader) lookup(name string) (*zip.File, bool) {
	f, ok := l.index[strings.ToLower(strings.TrimPrefix(path.Clean(name), "/"))]
	return f, ok
}

func (l *ArchiveLoader) exists(name string) bool {
	_, ok := l.lookup(name)
	return ok
}

// Open opens a single entry of the archive.
func (l *ArchiveLoader) Open(name string) (io.ReadCloser, error) {
	f, ok := l.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s not found in %s", name, l.path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", name, l.path, err)
	}
	return rc, nil
}

// Load implements atlas.TextureLoader.
func (l *ArchiveLoader) Load(page *atlas.Page, imagePath string) error {
	resolved, ok := ResolveImage(path.Clean(imagePath), l.exists)
	if !ok {
		return fmt.Errorf("page image %s not found in %s", imagePath, l.path)
	}
	rc, err := l.Open(resolved)
	if err != nil {
		return err
	}
	defer rc.Close()
	return l.install(page, resolved, rc)
}

// LoadAtlas parses the descriptor entry name, loading its pages from the
// same directory of the archive.
func (l *ArchiveLoader) LoadAtlas(name string, opts ...atlas.Option) (*atlas.Atlas, error) {
	rc, err := l.Open(name)
	if err != nil {
		return nil, err
	}
	dr, err := newDescriptorReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open descriptor %s: %w", name, err)
	}
	defer dr.Close()

	a, err := atlas.Load(dr, path.Dir(name), l, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return a, nil
}

// WriteArchive creates a zip file with the given files using Deflate compression.
func WriteArchive(outputPath string, files map[string][]byte) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := WriteArchiveToWriter(f, files); err != nil {
		return err
	}
	return f.Close()
}

// WriteArchiveToWriter writes a zip to the given writer using Deflate compression.
func WriteArchiveToWriter(w io.Writer, files map[string][]byte) error {
	zw := zip.NewWriter(w)

	// Sort keys for deterministic output
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		header := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}

	return zw.Close()
}
