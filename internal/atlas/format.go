package atlas

// Format is the pixel format a page should be uploaded with.
type Format int

const (
	Alpha Format = iota
	Intensity
	LuminanceAlpha
	RGB565
	RGBA4444
	RGB888
	RGBA8888
)

func (f Format) String() string {
	switch f {
	case Alpha:
		return "Alpha"
	case Intensity:
		return "Intensity"
	case LuminanceAlpha:
		return "LuminanceAlpha"
	case RGB565:
		return "RGB565"
	case RGBA4444:
		return "RGBA4444"
	case RGB888:
		return "RGB888"
	case RGBA8888:
		return "RGBA8888"
	}
	return "Format(?)"
}

// ParseFormat maps a descriptor token to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "Alpha":
		return Alpha, true
	case "Intensity":
		return Intensity, true
	case "LuminanceAlpha":
		return LuminanceAlpha, true
	case "RGB565":
		return RGB565, true
	case "RGBA4444":
		return RGBA4444, true
	case "RGB888":
		return RGB888, true
	case "RGBA8888":
		return RGBA8888, true
	}
	return 0, false
}

// TextureFilter is a minification or magnification filter.
type TextureFilter int

const (
	Nearest TextureFilter = iota
	Linear
	MipMap
	MipMapNearestNearest
	MipMapLinearNearest
	MipMapNearestLinear
	MipMapLinearLinear
)

func (f TextureFilter) String() string {
	switch f {
	case Nearest:
		return "Nearest"
	case Linear:
		return "Linear"
	case MipMap:
		return "MipMap"
	case MipMapNearestNearest:
		return "MipMapNearestNearest"
	case MipMapLinearNearest:
		return "MipMapLinearNearest"
	case MipMapNearestLinear:
		return "MipMapNearestLinear"
	case MipMapLinearLinear:
		return "MipMapLinearLinear"
	}
	return "TextureFilter(?)"
}

// ParseTextureFilter maps a descriptor token to a TextureFilter.
func ParseTextureFilter(s string) (TextureFilter, bool) {
	switch s {
	case "Nearest":
		return Nearest, true
	case "Linear":
		return Linear, true
	case "MipMap":
		return MipMap, true
	case "MipMapNearestNearest":
		return MipMapNearestNearest, true
	case "MipMapLinearNearest":
		return MipMapLinearNearest, true
	case "MipMapNearestLinear":
		return MipMapNearestLinear, true
	case "MipMapLinearLinear":
		return MipMapLinearLinear, true
	}
	return 0, false
}

// TextureWrap is the wrap mode of one texture axis.
type TextureWrap int

const (
	MirroredRepeat TextureWrap = iota
	ClampToEdge
	Repeat
)

func (w TextureWrap) String() string {
	switch w {
	case MirroredRepeat:
		return "MirroredRepeat"
	case ClampToEdge:
		return "ClampToEdge"
	case Repeat:
		return "Repeat"
	}
	return "TextureWrap(?)"
}

// parseRepeat maps the value of a page's repeat line to the u and v wrap
// modes. Anything other than x, y or xy clamps both axes.
func parseRepeat(direction string) (u, v TextureWrap) {
	switch direction {
	case "x":
		return Repeat, ClampToEdge
	case "y":
		return ClampToEdge, Repeat
	case "xy":
		return Repeat, Repeat
	}
	return ClampToEdge, ClampToEdge
}
