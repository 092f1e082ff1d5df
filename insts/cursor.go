package insts

// Cursor is a forward-only reader over an instruction byte stream.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at offset 0 of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Next consumes and returns the byte at the current offset.
// It returns ErrEndOfInput once the stream is exhausted.
func (c *Cursor) Next() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, ErrEndOfInput
	}

	b := c.data[c.pos]
	c.pos++

	return b, nil
}

// Peek returns the byte at the current offset without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

// Offset returns the offset of the next byte to be read.
func (c *Cursor) Offset() int {
	return c.pos
}

// Len returns the total length of the stream.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}
