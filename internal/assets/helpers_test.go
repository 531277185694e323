package assets

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

const testAtlas = `page.png
size: 8,4
format: RGBA8888
filter: Nearest,Nearest
repeat: none
flat
  rotate: false
  xy: 1, 1
  size: 2, 1
  orig: 4, 3
  offset: 1, 1
  index: -1
turned
  rotate: true
  xy: 5, 0
  size: 2, 1
  orig: 2, 1
  offset: 0, 0
  index: 3
`

// testPage returns an 8x4 image whose pixels encode their coordinates.
func testPage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}
	return img
}

func testPagePNG(t *testing.T) []byte {
	t.Helper()
	data, err := EncodePNG(testPage())
	if err != nil {
		t.Fatalf("encode page: %v", err)
	}
	return data
}

// writeAtlasDir writes the test descriptor and its page into a temp dir
// and returns the descriptor path.
func writeAtlasDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.png"), testPagePNG(t), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "game.atlas")
	if err := os.WriteFile(path, []byte(testAtlas), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
