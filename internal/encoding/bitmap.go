package encoding

import (
	"fmt"

	"github.com/arloliu/fitlay/errs"
)

// BitmapSize returns the number of bytes holding count presence bits.
func BitmapSize(count int) int {
	return (count + 7) / 8
}

// AppendBitmap appends present as a bitmap, bit i of byte i/8 set (LSB first)
// when present[i] is true.
func AppendBitmap(dst []byte, present []bool) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, BitmapSize(len(present)))...)
	for i, p := range present {
		if p {
			dst[start+i/8] |= 1 << (i % 8)
		}
	}

	return dst
}

// DecodeBitmap reads count presence bits. Padding bits past count must be
// zero.
func DecodeBitmap(data []byte, count int) ([]bool, error) {
	if len(data) != BitmapSize(count) {
		return nil, fmt.Errorf("%w: bitmap of %d bytes for %d entries", errs.ErrCorruptPayload, len(data), count)
	}
	if rem := count % 8; rem != 0 && data[len(data)-1]>>rem != 0 {
		return nil, fmt.Errorf("%w: bitmap padding bits set", errs.ErrCorruptPayload)
	}

	out := make([]bool, count)
	for i := range out {
		out[i] = data[i/8]&(1<<(i%8)) != 0
	}

	return out, nil
}

// PopCount returns the number of set entries in present.
func PopCount(present []bool) int {
	n := 0
	for _, p := range present {
		if p {
			n++
		}
	}

	return n
}
