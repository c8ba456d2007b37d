// Package chunk reads the length-prefixed chunk headers of 3DS files over a
// bounds-tracked cursor.
package chunk

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/Faultbox/max3ds/pkg/encoding"
)

// ErrShortRead is recorded when a read would cross the cursor's window end.
// It is sticky: once set, every further read returns zero values.
var ErrShortRead = errors.New("read past end of chunk")

// Cursor is a read position over an immutable buffer, limited to a window
// [pos, end). Reads never cross end.
type Cursor struct {
	buf []byte
	pos int
	end int
	err error
}

// NewCursor returns a cursor spanning all of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, end: len(buf)}
}

// Pos returns the absolute read position.
func (c *Cursor) Pos() int { return c.pos }

// End returns the absolute end of the cursor's window.
func (c *Cursor) End() int { return c.end }

// BufferLen returns the length of the whole underlying buffer.
func (c *Cursor) BufferLen() int { return len(c.buf) }

// Remaining returns the number of bytes left in the window.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// Err returns the first short read error, if any.
func (c *Cursor) Err() error { return c.err }

// Window returns a new cursor starting at the current position and ending
// at end, clamped to this cursor's own end.
func (c *Cursor) Window(end int) *Cursor {
	if end > c.end {
		end = c.end
	}
	if end < c.pos {
		end = c.pos
	}
	return &Cursor{buf: c.buf, pos: c.pos, end: end}
}

// Seek moves to the absolute position pos, clamped to [Pos, End].
func (c *Cursor) Seek(pos int) {
	switch {
	case pos > c.end:
		c.pos = c.end
	case pos > c.pos:
		c.pos = pos
	}
}

// Skip advances n bytes, recording ErrShortRead if fewer remain.
func (c *Cursor) Skip(n int) {
	if c.need(n) {
		c.pos += n
	}
}

func (c *Cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if n < 0 || c.Remaining() < n {
		c.err = ErrShortRead
		c.pos = c.end
		return false
	}
	return true
}

// Bytes returns the next n bytes without copying.
func (c *Cursor) Bytes(n int) []byte {
	if !c.need(n) {
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

// Rest returns all bytes left in the window and moves to its end.
func (c *Cursor) Rest() []byte {
	b := c.buf[c.pos:c.end]
	c.pos = c.end
	return b
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() uint8 {
	if !c.need(1) {
		return 0
	}
	v := c.buf[c.pos]
	c.pos++
	return v
}

// Uint16 reads a little-endian 16-bit word.
func (c *Cursor) Uint16() uint16 {
	if !c.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v
}

// Int16 reads a little-endian signed 16-bit word.
func (c *Cursor) Int16() int16 {
	return int16(c.Uint16())
}

// Uint32 reads a little-endian 32-bit word.
func (c *Cursor) Uint32() uint32 {
	if !c.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v
}

// Float32 reads a little-endian IEEE 754 float.
func (c *Cursor) Float32() float32 {
	return math.Float32frombits(c.Uint32())
}

// CString reads a zero-terminated string that must end inside the window.
// If no terminator is found the whole remainder is returned with ok false;
// the cursor is left past the terminator, or at the window end.
func (c *Cursor) CString() (s []byte, ok bool) {
	s, ok = encoding.CString(c.buf[c.pos:c.end])
	if ok {
		c.pos += len(s) + 1
	} else {
		c.pos = c.end
	}
	return s, ok
}
