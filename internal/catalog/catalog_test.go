package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ernie/spine-atlas/internal/atlas"
)

func testAtlas(pageName string, names ...string) *atlas.Atlas {
	page := &atlas.Page{Name: pageName, Width: 64, Height: 64}
	var regions []*atlas.Region
	for i, name := range names {
		regions = append(regions, &atlas.Region{
			Name: name, Page: page, X: i * 8, Width: 8, Height: 8, Index: i,
			U: float32(i*8) / 64, U2: float32(i*8+8) / 64, V2: 0.125,
		})
	}
	return atlas.New([]*atlas.Page{page}, regions)
}

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "regions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	if n, err := c.Import(ctx, "ui.atlas", testAtlas("ui.png", "button", "frame", "button")); err != nil || n != 3 {
		t.Fatalf("import ui: %d, %v", n, err)
	}
	if _, err := c.Import(ctx, "hud.atlas", testAtlas("hud.png", "button")); err != nil {
		t.Fatalf("import hud: %v", err)
	}

	got, err := c.Lookup(ctx, "button")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := []Entry{
		{Source: "hud.atlas", Seq: 0, Page: "hud.png", Name: "button", Index: 0, Width: 8, Height: 8, U2: 0.125, V2: 0.125},
		{Source: "ui.atlas", Seq: 0, Page: "ui.png", Name: "button", Index: 0, Width: 8, Height: 8, U2: 0.125, V2: 0.125},
		{Source: "ui.atlas", Seq: 2, Page: "ui.png", Name: "button", Index: 2, X: 16, Width: 8, Height: 8, U: 0.25, U2: 0.375, V2: 0.125},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}

	none, err := c.Lookup(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("missing: %v, %v", none, err)
	}
}

func TestImportReplacesSource(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	if _, err := c.Import(ctx, "ui.atlas", testAtlas("ui.png", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Import(ctx, "ui.atlas", testAtlas("ui2.png", "a")); err != nil {
		t.Fatal(err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []SourceStats{{Source: "ui.atlas", Pages: 1, Regions: 1}}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRejectsRegionWithoutPage(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	if _, err := c.Import(ctx, "ui.atlas", testAtlas("ui.png", "button")); err != nil {
		t.Fatalf("import: %v", err)
	}

	broken := testAtlas("ui.png", "button", "loose")
	broken.Regions()[1].Page = nil
	if n, err := c.Import(ctx, "ui.atlas", broken); err == nil {
		t.Fatalf("import without page = %d, want error", n)
	}

	got, err := c.Lookup(ctx, "button")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 1 || got[0].Source != "ui.atlas" {
		t.Errorf("rows after failed import = %+v", got)
	}
}
