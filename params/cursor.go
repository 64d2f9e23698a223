package params

import "github.com/khengari77/RandomFusion/fusionerr"

// Cursor is a read position in an expanded stream.
//
// Cursor is a value: reading returns the bytes and the next Cursor, and the
// caller threads it into the following slot. Derivation order is therefore
// visible in the code that derives each style.
type Cursor struct {
	off int
}

// Offset returns the number of stream bytes consumed so far.
func (c Cursor) Offset() int { return c.off }

// Next returns the width bytes at c and the cursor just past them.
func (c Cursor) Next(stream []byte, width int) ([]byte, Cursor, error) {
	if width <= 0 {
		return nil, c, fusionerr.Newf(fusionerr.KindInternal, "RF-INT-001", "invalid slot width %d", width)
	}
	end := c.off + width
	if end > len(stream) {
		return nil, c, fusionerr.Newf(fusionerr.KindInvalidLength, "RF-LEN-002",
			"stream too short: need %d bytes, have %d", end, len(stream))
	}
	return stream[c.off:end], Cursor{off: end}, nil
}
