package params

import (
	"encoding/binary"
	"image/color"
	"strconv"
)

type intRange struct{ min, max int }

func (r intRange) contains(n int64) bool { return n >= int64(r.min) && n <= int64(r.max) }

func (r intRange) String() string {
	return "[" + strconv.Itoa(r.min) + ", " + strconv.Itoa(r.max) + "]"
}

type floatRange struct{ min, max float64 }

func (r floatRange) contains(f float64) bool { return f >= r.min && f <= r.max }

func (r floatRange) String() string {
	return "[" + strconv.FormatFloat(r.min, 'g', -1, 64) + ", " + strconv.FormatFloat(r.max, 'g', -1, 64) + "]"
}

// Every read helper advances the cursor by the slot width before looking at
// overrides, so an override never shifts the bytes seen by later slots.

func readColor(stream []byte, c Cursor, ov Overrides, key string) (color.RGBA, Cursor, error) {
	b, next, err := c.Next(stream, colorWidth)
	if err != nil {
		return color.RGBA{}, c, err
	}
	if v, ok := ov[key]; ok {
		col, err := toColor(key, v)
		return col, next, err
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, next, nil
}

// readInt maps two big-endian bytes onto derived (inclusive). Overrides must
// fall inside allowed.
func readInt(stream []byte, c Cursor, ov Overrides, key string, derived, allowed intRange) (int, Cursor, error) {
	b, next, err := c.Next(stream, intWidth)
	if err != nil {
		return 0, c, err
	}
	if v, ok := ov[key]; ok {
		n, err := toInt64(key, v)
		if err != nil {
			return 0, next, err
		}
		if !allowed.contains(n) {
			return 0, next, domainError(key, v, allowed.String())
		}
		return int(n), next, nil
	}
	span := derived.max - derived.min + 1
	return derived.min + int(binary.BigEndian.Uint16(b))%span, next, nil
}

func readSeed(stream []byte, c Cursor, ov Overrides, key string) (uint64, Cursor, error) {
	b, next, err := c.Next(stream, seedWidth)
	if err != nil {
		return 0, c, err
	}
	if v, ok := ov[key]; ok {
		n, err := toUint64(key, v)
		return n, next, err
	}
	return binary.BigEndian.Uint64(b), next, nil
}

// readFloat interpolates two big-endian bytes linearly across derived.
func readFloat(stream []byte, c Cursor, ov Overrides, key string, derived, allowed floatRange) (float64, Cursor, error) {
	b, next, err := c.Next(stream, floatWidth)
	if err != nil {
		return 0, c, err
	}
	if v, ok := ov[key]; ok {
		f, err := toFloat(key, v)
		if err != nil {
			return 0, next, err
		}
		if !allowed.contains(f) {
			return 0, next, domainError(key, v, allowed.String())
		}
		return f, next, nil
	}
	frac := float64(binary.BigEndian.Uint16(b)) / 65535
	span := derived.max - derived.min
	// The explicit conversion keeps the product from being fused into an FMA,
	// which would make results architecture dependent.
	return derived.min + float64(span*frac), next, nil
}

func readPalette(stream []byte, c Cursor, n int) ([]color.RGBA, Cursor, error) {
	b, next, err := c.Next(stream, n*colorWidth)
	if err != nil {
		return nil, c, err
	}
	out := make([]color.RGBA, n)
	for i := range out {
		o := i * colorWidth
		out[i] = color.RGBA{R: b[o], G: b[o+1], B: b[o+2], A: 0xff}
	}
	return out, next, nil
}
