package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/pool"
)

// NumericGorillaEncoder compresses float64 values with Gorilla XOR encoding.
//
// The first value is stored as 64 raw bits. Each later value is XORed with
// its predecessor: an unchanged value costs a single 0 bit; otherwise a 1 bit
// is followed either by 0 and the meaningful bits inside the previous
// leading/trailing zero window, or by 1, 5 bits of leading zeros, 6 bits of
// block length minus one and the meaningful bits.
//
// See https://www.vldb.org/pvldb/vol8/p1816-teller.pdf.
type NumericGorillaEncoder struct {
	bw            bitWriter
	prevValue     uint64
	count         int
	prevLeading   int
	prevTrailing  int
	prevBlockSize int
}

var _ ColumnarEncoder[float64] = (*NumericGorillaEncoder)(nil)

// NewNumericGorillaEncoder returns an encoder backed by a pooled buffer.
func NewNumericGorillaEncoder() *NumericGorillaEncoder {
	return &NumericGorillaEncoder{bw: bitWriter{buf: pool.GetSeriesBuffer()}}
}

// Write appends one value.
//
// Panics if Finish has been called.
func (e *NumericGorillaEncoder) Write(val float64) {
	if e.bw.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	valBits := math.Float64bits(val)
	e.count++

	if e.count == 1 {
		e.prevValue = valBits
		e.bw.writeBits(valBits, 64)

		return
	}

	xor := valBits ^ e.prevValue
	e.prevValue = valBits

	if xor == 0 {
		e.bw.writeBit(0)
		return
	}
	e.bw.writeBit(1)

	leading := min(bits.LeadingZeros64(xor), 31)
	trailing := bits.TrailingZeros64(xor)

	if e.prevBlockSize > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.bw.writeBit(0)
		e.bw.writeBits(xor>>e.prevTrailing, e.prevBlockSize)

		return
	}

	blockSize := 64 - leading - trailing
	e.bw.writeBit(1)
	e.bw.writeBits(uint64(leading), 5)     //nolint:gosec
	e.bw.writeBits(uint64(blockSize-1), 6) //nolint:gosec
	e.bw.writeBits(xor>>trailing, blockSize)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevBlockSize = blockSize
}

// WriteSlice appends values in order.
func (e *NumericGorillaEncoder) WriteSlice(values []float64) {
	for _, v := range values {
		e.Write(v)
	}
}

// Bytes flushes pending bits and returns the encoded column.
func (e *NumericGorillaEncoder) Bytes() []byte {
	if e.bw.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}
	e.bw.flush()

	return e.bw.buf.Bytes()
}

func (e *NumericGorillaEncoder) Len() int { return e.count }

// Size returns the encoded size in bytes, counting a partial trailing byte.
func (e *NumericGorillaEncoder) Size() int {
	if e.bw.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.bw.buf.Len() + (e.bw.count+7)/8
}

func (e *NumericGorillaEncoder) Reset() {
	if e.bw.buf != nil {
		e.bw.buf.Reset()
	}
	e.bw.acc, e.bw.count = 0, 0
	e.prevValue = 0
	e.count = 0
	e.prevLeading, e.prevTrailing, e.prevBlockSize = 0, 0, 0
}

func (e *NumericGorillaEncoder) Finish() {
	if e.bw.buf == nil {
		return
	}
	pool.PutSeriesBuffer(e.bw.buf)
	e.bw.buf = nil
}

// NumericGorillaDecoder decodes columns written by NumericGorillaEncoder.
type NumericGorillaDecoder struct{}

var _ ColumnarDecoder[float64] = NumericGorillaDecoder{}

// NewNumericGorillaDecoder returns a Gorilla decoder.
func NewNumericGorillaDecoder() NumericGorillaDecoder {
	return NumericGorillaDecoder{}
}

// All yields up to count values.
func (d NumericGorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 {
			return
		}

		br := bitReader{data: data}
		prev, ok := br.readBits(64)
		if !ok || !yield(math.Float64frombits(prev)) {
			return
		}

		trailing, blockSize := 0, 0
		for range count - 1 {
			changed, ok := br.readBit()
			if !ok {
				return
			}

			if changed == 1 {
				newWindow, ok := br.readBit()
				if !ok {
					return
				}

				if newWindow == 1 {
					leading, ok1 := br.readBits(5)
					size, ok2 := br.readBits(6)
					if !ok1 || !ok2 {
						return
					}
					blockSize = int(size) + 1                //nolint:gosec
					trailing = 64 - int(leading) - blockSize //nolint:gosec
					if trailing < 0 {
						return
					}
				} else if blockSize == 0 {
					return
				}

				meaningful, ok := br.readBits(blockSize)
				if !ok {
					return
				}
				prev ^= meaningful << trailing
			}

			if !yield(math.Float64frombits(prev)) {
				return
			}
		}
	}
}

// Decode returns exactly count values. The first value takes 64 bits and each
// later one at least a bit, which bounds count by the size of data.
func (d NumericGorillaDecoder) Decode(data []byte, count int) ([]float64, error) {
	if count < 0 || (count > 0 && count-1 > len(data)*8-64) {
		return nil, fmt.Errorf("%w: gorilla values: %d bytes cannot hold %d entries", errs.ErrCorruptPayload, len(data), count)
	}

	out := make([]float64, 0, count)
	for v := range d.All(data, count) {
		out = append(out, v)
	}

	if len(out) != count {
		return nil, fmt.Errorf("%w: gorilla values: decoded %d of %d", errs.ErrCorruptPayload, len(out), count)
	}

	return out, nil
}

// bitWriter accumulates bits MSB first and spills whole bytes to buf.
type bitWriter struct {
	buf   *pool.ByteBuffer
	acc   uint64
	count int
}

func (w *bitWriter) writeBit(bit uint64) {
	w.writeBits(bit, 1)
}

func (w *bitWriter) writeBits(value uint64, n int) {
	if n == 0 {
		return
	}
	if n < 64 {
		value &= (1 << n) - 1
	}

	free := 64 - w.count
	if n <= free {
		if n == 64 {
			w.acc = value
		} else {
			w.acc = w.acc<<n | value
		}
		w.count += n
		if w.count == 64 {
			w.spill()
		}

		return
	}

	high := n - free
	w.acc = w.acc<<free | value>>high
	w.count = 64
	w.spill()
	w.acc = value & (1<<high - 1)
	w.count = high
}

// spill writes the full 64-bit accumulator.
func (w *bitWriter) spill() {
	w.buf.B = binary.BigEndian.AppendUint64(w.buf.B, w.acc)
	w.acc, w.count = 0, 0
}

// flush writes pending bits padded with zeros to a byte boundary.
func (w *bitWriter) flush() {
	if w.count == 0 {
		return
	}

	aligned := w.acc << (64 - w.count)
	for i := range (w.count + 7) / 8 {
		_ = w.buf.WriteByte(byte(aligned >> (56 - 8*i)))
	}
	w.acc, w.count = 0, 0
}

// bitReader reads bits MSB first.
type bitReader struct {
	data []byte
	pos  int // bit position
}

func (r *bitReader) readBit() (uint64, bool) {
	if r.pos >= len(r.data)*8 {
		return 0, false
	}
	bit := uint64(r.data[r.pos>>3]>>(7-r.pos&7)) & 1
	r.pos++

	return bit, true
}

func (r *bitReader) readBits(n int) (uint64, bool) {
	if r.pos+n > len(r.data)*8 {
		return 0, false
	}

	var v uint64
	for n > 0 {
		byteIdx := r.pos >> 3
		bitOff := r.pos & 7
		avail := 8 - bitOff
		take := min(avail, n)

		chunk := uint64(r.data[byteIdx]>>(avail-take)) & (1<<take - 1)
		v = v<<take | chunk

		r.pos += take
		n -= take
	}

	return v, true
}
