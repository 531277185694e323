package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// OpenDescriptor opens an atlas descriptor for reading. Descriptors
// compressed with zstd (usually named *.atlas.zst) are decompressed
// transparently.
func OpenDescriptor(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}
	rc, err := newDescriptorReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open descriptor %s: %w", path, err)
	}
	return rc, nil
}

// newDescriptorReader wraps rc, decompressing when the stream is zstd.
// Closing the result closes rc.
func newDescriptorReader(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, zstdMagic) {
		return &descriptorReader{Reader: br, closer: rc}, nil
	}

	decoder, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder init: %w", err)
	}
	return &descriptorReader{Reader: decoder, closer: rc, decoder: decoder}, nil
}

type descriptorReader struct {
	io.Reader
	closer  io.Closer
	decoder *zstd.Decoder
}

func (d *descriptorReader) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
	}
	return d.closer.Close()
}
