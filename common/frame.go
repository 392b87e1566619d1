package common

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// frameHeaderSize is the little-endian uint32 length that prefixes a frame.
const frameHeaderSize = 4

var ErrFrameTooLarge = errors.New("frame too large")

// ReadFrame returns the next frame body from r. An oversized header is an
// error: the stream cannot be resynchronized without consuming the body.
func ReadFrame(r io.Reader) ([]byte, error) {
	var head [frameHeaderSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head[:])
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteFrame writes header and body in a single call so concurrent writers
// serialized by the caller never interleave a header with another body.
func WriteFrame(w io.Writer, b []byte) error {
	if len(b) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(b))
	}
	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(b))
	binary.LittleEndian.PutUint32(frame, uint32(len(b)))
	_, err := w.Write(append(frame, b...))
	return err
}
