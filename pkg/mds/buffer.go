// Package mds decodes Alcohol 120% media descriptor (.mds) files.
//
// An MDS file is a small little-endian index: a fixed header points at a
// session table, each session points at its own track table, and each track
// may point at an index block and a filename block. Every record is reached
// through an absolute offset stored in an earlier record, so decoding works on
// the whole file held in memory rather than on a stream. The best public
// description of the layout is at
// https://psx-spx.consoledev.net/cdromdrive/#cdrom-disk-images-mdsmdf-alcohol-120
package mds

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Buffer is a bounds-checked view over a complete MDS file. All reads take an
// absolute offset; none may extend past the end of the buffer.
type Buffer []byte

// Len returns the buffer size in bytes
func (b Buffer) Len() int64 {
	return int64(len(b))
}

// Span returns the n bytes starting at off, or ErrOutOfBounds if any of them
// lies outside the buffer.
func (b Buffer) Span(off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > b.Len() || int64(n) > b.Len()-off {
		return nil, fmt.Errorf("%w: %d bytes at 0x%X, buffer is %d bytes", ErrOutOfBounds, n, off, len(b))
	}
	return b[off : off+int64(n)], nil
}

// Decode reads the fixed-size little-endian value v (a pointer to a struct or
// fixed-width integer) at off and returns the offset just past it.
func (b Buffer) Decode(off int64, v any) (int64, error) {
	size := binary.Size(v)
	if size < 0 {
		return off, fmt.Errorf("cannot decode value of type %T", v)
	}
	span, err := b.Span(off, size)
	if err != nil {
		return off, err
	}
	if err := binary.Read(bytes.NewReader(span), binary.LittleEndian, v); err != nil {
		return off, err
	}
	return off + int64(size), nil
}

// CString reads a NUL terminated 8-bit string at off
func (b Buffer) CString(off int64) (string, error) {
	if _, err := b.Span(off, 0); err != nil {
		return "", err
	}
	end := bytes.IndexByte(b[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: 8-bit string at 0x%X", ErrUnterminated, off)
	}
	return string(b[off : off+int64(end)]), nil
}

// CString16 reads a 0x0000 terminated UTF-16LE string at off
func (b Buffer) CString16(off int64) (string, error) {
	if _, err := b.Span(off, 0); err != nil {
		return "", err
	}
	end := int64(-1)
	for i := off; i+1 < b.Len(); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("%w: 16-bit string at 0x%X", ErrUnterminated, off)
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	name, err := dec.Bytes(b[off:end])
	if err != nil {
		return "", fmt.Errorf("failed to decode 16-bit string at 0x%X: %w", off, err)
	}
	return string(name), nil
}
