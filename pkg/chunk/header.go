package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the size of a chunk header: 16-bit tag plus 32-bit size.
const HeaderSize = 6

// Chunk reader errors. ErrNoChunk is soft; the others abort a decode.
var (
	ErrNoChunk        = errors.New("not enough bytes for a chunk header")
	ErrUnexpectedEOF  = errors.New("unexpected end of file, can't read chunk header")
	ErrTruncatedChunk = errors.New("chunk extends past end of file")
	ErrBadChunkSize   = errors.New("chunk size smaller than its header")
)

// Tag identifies a chunk type.
type Tag uint16

// String returns the tag in the hex notation used by format references.
func (t Tag) String() string {
	return fmt.Sprintf("0x%04X", uint16(t))
}

// Header is a decoded chunk header.
type Header struct {
	Tag    Tag
	Size   uint32 // total size: header, payload and nested children
	Offset int    // absolute offset of the header
}

// PayloadStart returns the absolute offset of the first payload byte.
func (h Header) PayloadStart() int {
	return h.Offset + HeaderSize
}

// End returns the absolute offset one past the chunk's last byte.
func (h Header) End() int {
	return h.Offset + int(h.Size)
}

// PayloadLen returns the declared payload length.
func (h Header) PayloadLen() int {
	return int(h.Size) - HeaderSize
}

// ReadHeader reads one chunk header and advances the cursor past it.
//
// It returns ErrUnexpectedEOF when the cursor sits at the end of the buffer,
// ErrNoChunk (cursor untouched) when fewer than HeaderSize bytes remain in
// the window, and ErrTruncatedChunk when the declared size would end the
// chunk past the end of the buffer.
func ReadHeader(c *Cursor) (Header, error) {
	if c.pos >= len(c.buf) {
		return Header{}, ErrUnexpectedEOF
	}
	if c.Remaining() < HeaderSize {
		return Header{}, ErrNoChunk
	}

	h := Header{
		Tag:    Tag(binary.LittleEndian.Uint16(c.buf[c.pos:])),
		Size:   binary.LittleEndian.Uint32(c.buf[c.pos+2:]),
		Offset: c.pos,
	}
	if h.Size < HeaderSize {
		return h, fmt.Errorf("%w: tag %s at offset %d declares %d bytes", ErrBadChunkSize, h.Tag, h.Offset, h.Size)
	}
	if int64(h.Offset)+int64(h.Size) > int64(len(c.buf)) {
		return h, fmt.Errorf("%w: tag %s at offset %d declares %d bytes, %d available",
			ErrTruncatedChunk, h.Tag, h.Offset, h.Size, len(c.buf)-h.Offset)
	}

	c.pos += HeaderSize
	return h, nil
}
