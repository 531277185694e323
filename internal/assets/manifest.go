package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ernie/spine-atlas/internal/atlas"
)

// Manifest is a JSON rendition of a parsed atlas, for tools that do not
// read the descriptor grammar.
type Manifest struct {
	Source string      `json:"source,omitempty"`
	Pages  []PageEntry `json:"pages"`

	// Unplaced names the regions whose page is not one of the atlas pages.
	Unplaced []string `json:"unplaced,omitempty"`
}

// PageEntry describes one page and the regions packed into it.
type PageEntry struct {
	Name      string        `json:"name"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Format    string        `json:"format"`
	MinFilter string        `json:"minFilter"`
	MagFilter string        `json:"magFilter"`
	UWrap     string        `json:"uWrap"`
	VWrap     string        `json:"vWrap"`
	Regions   []RegionEntry `json:"regions"`
}

// RegionEntry describes one region.
type RegionEntry struct {
	Name           string     `json:"name"`
	Index          int        `json:"index"`
	Rotate         bool       `json:"rotate,omitempty"`
	X              int        `json:"x"`
	Y              int        `json:"y"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	UV             [4]float32 `json:"uv"` // u, v, u2, v2
	Splits         []int      `json:"splits,omitempty"`
	Pads           []int      `json:"pads,omitempty"`
	OriginalWidth  int        `json:"originalWidth"`
	OriginalHeight int        `json:"originalHeight"`
	OffsetX        int        `json:"offsetX"`
	OffsetY        int        `json:"offsetY"`
}

// BuildManifest converts an atlas to its manifest form. Regions keep their
// declaration order within each page. A region whose page is nil or not
// part of the atlas has no page entry to go into; its name is listed in
// Unplaced instead.
func BuildManifest(source string, a *atlas.Atlas) *Manifest {
	m := &Manifest{Source: source}
	byPage := make(map[*atlas.Page]int, len(a.Pages()))
	for i, p := range a.Pages() {
		byPage[p] = i
		m.Pages = append(m.Pages, PageEntry{
			Name:      p.Name,
			Width:     p.Width,
			Height:    p.Height,
			Format:    p.Format.String(),
			MinFilter: p.MinFilter.String(),
			MagFilter: p.MagFilter.String(),
			UWrap:     p.UWrap.String(),
			VWrap:     p.VWrap.String(),
			Regions:   []RegionEntry{},
		})
	}
	for _, r := range a.Regions() {
		i, ok := byPage[r.Page]
		if !ok {
			m.Unplaced = append(m.Unplaced, r.Name)
			continue
		}
		m.Pages[i].Regions = append(m.Pages[i].Regions, RegionEntry{
			Name:           r.Name,
			Index:          r.Index,
			Rotate:         r.Rotate,
			X:              r.X,
			Y:              r.Y,
			Width:          r.Width,
			Height:         r.Height,
			UV:             [4]float32{r.U, r.V, r.U2, r.V2},
			Splits:         r.Splits,
			Pads:           r.Pads,
			OriginalWidth:  r.OriginalWidth,
			OriginalHeight: r.OriginalHeight,
			OffsetX:        r.OffsetX,
			OffsetY:        r.OffsetY,
		})
	}
	return m
}

// RegionCount returns the number of regions across all pages.
func (m *Manifest) RegionCount() int {
	n := 0
	for _, p := range m.Pages {
		n += len(p.Regions)
	}
	return n
}

// LoadManifest loads a manifest from a JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest to a JSON file.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Encode writes the manifest as indented JSON to w.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
