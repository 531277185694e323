// Package atlas reads texture atlas descriptors written by sprite packers
// and models the packed pages and the regions inside them.
package atlas

// TextureLoader supplies page textures. Load must install an opaque handle
// in page.Texture; Unload releases a handle installed by Load.
type TextureLoader interface {
	Load(page *Page, path string) error
	Unload(texture any) error
}

// Page is one packed image of an atlas.
type Page struct {
	Name      string
	Width     int // 0 when the descriptor omits the size line
	Height    int
	Format    Format
	MinFilter TextureFilter
	MagFilter TextureFilter
	UWrap     TextureWrap
	VWrap     TextureWrap
	Texture   any
}

// Region is a named sprite inside a page.
type Region struct {
	Name   string
	Page   *Page
	Rotate bool

	// Packed rectangle in page pixels. Width and Height are never negative
	// and are not swapped for rotated regions.
	X, Y          int
	Width, Height int

	// Texture coordinates, normalized to the page size.
	U, V, U2, V2 float32

	// Splits and Pads are left, right, top, bottom insets. Both are nil when
	// the descriptor omits them; Pads is only set together with Splits.
	Splits []int
	Pads   []int

	OriginalWidth  int
	OriginalHeight int
	OffsetX        int
	OffsetY        int
	Index          int
}

// PackedWidth is the width the region occupies in its page.
func (r *Region) PackedWidth() int {
	if r.Rotate {
		return r.Height
	}
	return r.Width
}

// PackedHeight is the height the region occupies in its page.
func (r *Region) PackedHeight() int {
	if r.Rotate {
		return r.Width
	}
	return r.Height
}

// setBounds stores the packed rectangle and derives the UVs from it. width
// and height are taken as written; rotated regions occupy a transposed
// footprint in the page.
func (r *Region) setBounds(x, y, width, height int) {
	pw, ph := float32(r.Page.Width), float32(r.Page.Height)
	r.X, r.Y = x, y
	r.U = float32(x) / pw
	r.V = float32(y) / ph
	if r.Rotate {
		r.U2 = float32(x+height) / pw
		r.V2 = float32(y+width) / ph
	} else {
		r.U2 = float32(x+width) / pw
		r.V2 = float32(y+height) / ph
	}
	r.Width = abs(width)
	r.Height = abs(height)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Atlas is the parsed descriptor: pages and regions in declaration order.
//
// An Atlas is safe for concurrent reads once built. FlipV mutates regions
// and must not run concurrently with readers.
type Atlas struct {
	pages   []*Page
	regions []*Region
	loader  TextureLoader
}

// New assembles an atlas from existing pages and regions. Such an atlas has
// no loader, so Dispose does nothing.
func New(pages []*Page, regions []*Region) *Atlas {
	return &Atlas{pages: pages, regions: regions}
}

// Pages returns the pages in declaration order.
func (a *Atlas) Pages() []*Page {
	return a.pages
}

// Regions returns the regions of all pages in declaration order.
func (a *Atlas) Regions() []*Region {
	return a.regions
}

// FlipV mirrors the v coordinates of every region, for renderers whose
// texture origin is at the bottom.
func (a *Atlas) FlipV() {
	for _, r := range a.regions {
		r.V = 1 - r.V
		r.V2 = 1 - r.V2
	}
}

// FindRegion returns the first region with the given name. The lookup is a
// linear scan; callers should keep the result instead of repeating it.
func (a *Atlas) FindRegion(name string) (*Region, bool) {
	for _, r := range a.regions {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// FindRegions returns every region with the given name, such as the frames
// of an animation distinguished by Index.
func (a *Atlas) FindRegions(name string) []*Region {
	var found []*Region
	for _, r := range a.regions {
		if r.Name == name {
			found = append(found, r)
		}
	}
	return found
}

// Dispose unloads every page texture in declaration order and stops at the
// first loader error.
func (a *Atlas) Dispose() error {
	if a.loader == nil {
		return nil
	}
	for _, p := range a.pages {
		if err := a.loader.Unload(p.Texture); err != nil {
			return err
		}
	}
	return nil
}
