package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/ernie/spine-atlas/internal/atlas"
)

// UnpackOptions says where extracted regions go. When Archive is set the
// images are written into that zip file, otherwise under OutputDir.
type UnpackOptions struct {
	OutputDir string
	Archive   string
}

// UnpackResult summarizes an Unpack run.
type UnpackResult struct {
	Files   []string // written names in declaration order
	Bytes   int64
	Skipped []string // regions without a decoded page, unsafe or duplicate names
}

// RegionFileName is the output name for a region. Indexed regions are
// animation frames sharing a name, so the index is appended.
func RegionFileName(r *atlas.Region) string {
	if r.Index >= 0 {
		return fmt.Sprintf("%s_%d.png", r.Name, r.Index)
	}
	return r.Name + ".png"
}

// ExtractRegion cuts r out of its page image and restores the original,
// untrimmed sprite: rotation is undone and the trimmed pixels are placed at
// their offset on a transparent canvas of the original size.
func ExtractRegion(r *atlas.Region, page image.Image) *image.NRGBA {
	packed := image.Rect(r.X, r.Y, r.X+r.PackedWidth(), r.Y+r.PackedHeight()).
		Add(page.Bounds().Min).
		Intersect(page.Bounds())

	var sprite image.Image = subImage(page, packed)
	if r.Rotate {
		sprite = rotateClockwise(sprite)
	}

	origW, origH := r.OriginalWidth, r.OriginalHeight
	if origW == 0 || origH == 0 {
		origW, origH = r.Width, r.Height
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, origW, origH))

	// offsets are measured from the bottom-left corner
	top := origH - r.OffsetY - r.Height
	dst := image.Rect(r.OffsetX, top, r.OffsetX+r.Width, top+r.Height)
	draw.Draw(canvas, dst, sprite, sprite.Bounds().Min, draw.Src)
	return canvas
}

func subImage(m image.Image, rect image.Rectangle) image.Image {
	if s, ok := m.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return s.SubImage(rect)
	}
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), m, rect.Min, draw.Src)
	return out
}

// rotateClockwise turns m a quarter turn clockwise, undoing the packer's
// rotation.
func rotateClockwise(m image.Image) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(b.Max.Y-1-y, x-b.Min.X, m.At(x, y))
		}
	}
	return out
}

type unpacked struct {
	name string
	data []byte
	err  error
}

// safeName reports whether a region file name stays inside the output
// root once joined to it. Subfolders separated by "/" are allowed.
func safeName(name string) bool {
	return filepath.IsLocal(filepath.FromSlash(name))
}

// Unpack extracts every region whose page was loaded by a loader of this
// package and writes it as a PNG. Regions whose name would leave the
// output directory or archive root are skipped.
func Unpack(a *atlas.Atlas, opts UnpackOptions) (*UnpackResult, error) {
	if opts.OutputDir == "" && opts.Archive == "" {
		return nil, fmt.Errorf("unpack: no output directory or archive given")
	}

	result := &UnpackResult{}
	var jobs []*atlas.Region
	seen := make(map[string]bool)
	for _, r := range a.Regions() {
		var tex *Texture
		if r.Page != nil {
			tex, _ = r.Page.Texture.(*Texture)
		}
		name := RegionFileName(r)
		if !safeName(name) {
			log.Warnf("unpack: region name %q escapes the output root", r.Name)
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if tex == nil || tex.Image == nil || seen[name] {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		seen[name] = true
		jobs = append(jobs, r)
	}

	results := make([]chan unpacked, len(jobs))
	for i, r := range jobs {
		results[i] = make(chan unpacked, 1)
		go func(r *atlas.Region, out chan<- unpacked) {
			name := RegionFileName(r)
			img := ExtractRegion(r, r.Page.Texture.(*Texture).Image)
			data, err := EncodePNG(img)
			if err != nil {
				err = fmt.Errorf("encode %s: %w", name, err)
			}
			out <- unpacked{name: name, data: data, err: err}
		}(r, results[i])
	}

	files := make(map[string][]byte, len(jobs))
	var firstErr error
	for _, ch := range results {
		u := <-ch
		if u.err != nil {
			if firstErr == nil {
				firstErr = u.err
			}
			continue
		}
		files[u.name] = u.data
		result.Files = append(result.Files, u.name)
		result.Bytes += int64(len(u.data))
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if opts.Archive != "" {
		if err := WriteArchive(opts.Archive, files); err != nil {
			return nil, fmt.Errorf("write archive: %w", err)
		}
		log.Infof("unpacked %d regions (%s) into %s", len(files), humanize.Bytes(uint64(result.Bytes)), opts.Archive)
		return result, nil
	}

	for _, name := range result.Files {
		out := filepath.Join(opts.OutputDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
		if err := os.WriteFile(out, files[name], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", out, err)
		}
	}
	log.Infof("unpacked %d regions (%s) into %s", len(files), humanize.Bytes(uint64(result.Bytes)), opts.OutputDir)
	return result, nil
}
