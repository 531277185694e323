package atlas

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Option adjusts how Load treats its input.
type Option func(*parser)

// WithStrictEOF makes Load fail with ErrTruncated when the descriptor ends
// inside a page header or region block. By default the incomplete record is
// dropped and the atlas built so far is returned.
func WithStrictEOF() Option {
	return func(p *parser) { p.strict = true }
}

// parseState says what a non-blank line starts.
type parseState int

const (
	expectPage parseState = iota // the line names a new page
	inPage                       // the line names a region of the current page
)

type parser struct {
	lr        *lineReader
	imagesDir string
	loader    TextureLoader
	strict    bool

	state parseState
	page  *Page
	atlas *Atlas
}

// Load parses a descriptor and loads one texture per page through loader.
// Page images are looked up as imagesDir + "/" + page name. Any error aborts
// the parse and no atlas is returned; errors from loader are returned as-is.
func Load(r io.Reader, imagesDir string, loader TextureLoader, opts ...Option) (*Atlas, error) {
	if loader == nil {
		return nil, ErrMissingLoader
	}
	p := &parser{
		lr:        newLineReader(r),
		imagesDir: imagesDir,
		loader:    loader,
		atlas:     &Atlas{loader: loader},
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.atlas, nil
}

func (p *parser) run() error {
	for {
		line, err := p.lr.next()
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("atlas: read line %d: %w", p.lr.line+1, err)
		}

		if strings.TrimSpace(line) == "" {
			p.state = expectPage
			p.page = nil
			continue
		}

		switch p.state {
		case expectPage:
			err = p.readPage(line)
		case inPage:
			err = p.readRegion(line)
		}
		if errors.Is(err, errEndOfInput) {
			if p.strict {
				return fmt.Errorf("%w: %q after line %d", ErrTruncated, line, p.lr.line)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) imagePath(name string) string {
	if p.imagesDir == "" {
		return name
	}
	return p.imagesDir + "/" + name
}

// readPage reads the header lines following a page name.
func (p *parser) readPage(name string) error {
	page := &Page{Name: name, UWrap: ClampToEdge, VWrap: ClampToEdge}

	t, err := p.lr.readTuple()
	if err != nil {
		return err
	}
	if t.n == 2 {
		// size is only written by newer packers
		if page.Width, err = t.intAt(0); err != nil {
			return err
		}
		if page.Height, err = t.intAt(1); err != nil {
			return err
		}
		if t, err = p.lr.readTuple(); err != nil {
			return err
		}
	}
	format, ok := ParseFormat(t.fields[0])
	if !ok {
		return &UnknownEnumValueError{Kind: "format", Value: t.fields[0], Line: t.line}
	}
	page.Format = format

	if t, err = p.lr.readTuple(); err != nil {
		return err
	}
	if page.MinFilter, err = t.filter(0); err != nil {
		return err
	}
	if page.MagFilter, err = t.filter(1); err != nil {
		return err
	}

	direction, err := p.lr.readValue()
	if err != nil {
		return err
	}
	page.UWrap, page.VWrap = parseRepeat(direction)

	if err := p.loader.Load(page, p.imagePath(name)); err != nil {
		return err
	}

	p.atlas.pages = append(p.atlas.pages, page)
	p.page = page
	p.state = inPage
	return nil
}

func (t tuple) filter(i int) (TextureFilter, error) {
	f, ok := ParseTextureFilter(t.fields[i])
	if !ok {
		return 0, &UnknownEnumValueError{Kind: "texture filter", Value: t.fields[i], Line: t.line}
	}
	return f, nil
}

// readRegion reads the field lines following a region name.
func (p *parser) readRegion(name string) error {
	region := &Region{Name: name, Page: p.page}

	rotate, err := p.lr.readValue()
	if err != nil {
		return err
	}
	if region.Rotate, err = parseBool(rotate, p.lr.line); err != nil {
		return err
	}

	xy, err := p.lr.readTuple()
	if err != nil {
		return err
	}
	x, err := xy.intAt(0)
	if err != nil {
		return err
	}
	y, err := xy.intAt(1)
	if err != nil {
		return err
	}
	size, err := p.lr.readTuple()
	if err != nil {
		return err
	}
	width, err := size.intAt(0)
	if err != nil {
		return err
	}
	height, err := size.intAt(1)
	if err != nil {
		return err
	}
	region.setBounds(x, y, width, height)

	// pendingTuple is the split line when it has four fields, otherwise it
	// already holds the original size.
	pendingTuple, err := p.lr.readTuple()
	if err != nil {
		return err
	}
	if pendingTuple.n == 4 {
		if region.Splits, err = pendingTuple.ints(); err != nil {
			return err
		}
		if pendingTuple, err = p.lr.readTuple(); err != nil {
			return err
		}
		if pendingTuple.n == 4 {
			// pad is only present with split
			if region.Pads, err = pendingTuple.ints(); err != nil {
				return err
			}
			if pendingTuple, err = p.lr.readTuple(); err != nil {
				return err
			}
		}
	}
	if region.OriginalWidth, err = pendingTuple.intAt(0); err != nil {
		return err
	}
	if region.OriginalHeight, err = pendingTuple.intAt(1); err != nil {
		return err
	}

	offset, err := p.lr.readTuple()
	if err != nil {
		return err
	}
	if region.OffsetX, err = offset.intAt(0); err != nil {
		return err
	}
	if region.OffsetY, err = offset.intAt(1); err != nil {
		return err
	}

	index, err := p.lr.readValue()
	if err != nil {
		return err
	}
	if region.Index, err = parseInt(index, p.lr.line); err != nil {
		return err
	}

	p.atlas.regions = append(p.atlas.regions, region)
	return nil
}
