package assets

import (
	"bytes"
	"testing"
)

func TestResolveImage(t *testing.T) {
	files := map[string]bool{
		"pages/a.png":   true,
		"pages/b.tga":   true,
		"pages/c.x.png": true,
	}
	exists := func(name string) bool { return files[name] }

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"pages/a.png", "pages/a.png", true},
		{"pages/a", "pages/a.png", true},
		{"pages/b.png", "pages/b.tga", true},
		{"pages/c.x", "pages/c.x.png", true},
		{"pages/missing.png", "", false},
	}
	for _, tc := range tests {
		got, ok := ResolveImage(tc.name, exists)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ResolveImage(%q) = %q, %v; want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecodeImage(t *testing.T) {
	data := testPagePNG(t)
	img, err := DecodeImage("PAGE.PNG", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
	if got, want := nrgbaAt(img, 3, 2), nrgbaAt(testPage(), 3, 2); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	if _, err := DecodeImage("page.gif", bytes.NewReader(data)); err == nil {
		t.Error("expected error for unsupported type")
	}
}
