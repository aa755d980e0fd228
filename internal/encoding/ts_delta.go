package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/pool"
)

// TimestampDeltaEncoder encodes microsecond timestamps as delta-of-delta.
//
// The first timestamp is a plain uvarint, the second a zigzag delta and every
// later one the zigzag difference between consecutive deltas. A 1 Hz recording
// costs one byte per sample after the first two.
type TimestampDeltaEncoder struct {
	prevTS    int64
	prevDelta int64
	buf       *pool.ByteBuffer
	count     int
	seqCount  int
}

var _ ColumnarEncoder[int64] = (*TimestampDeltaEncoder)(nil)

// NewTimestampDeltaEncoder returns an encoder backed by a pooled buffer.
func NewTimestampDeltaEncoder() *TimestampDeltaEncoder {
	return &TimestampDeltaEncoder{buf: pool.GetSeriesBuffer()}
}

// Write appends one timestamp in microseconds.
//
// Panics if Finish has been called.
func (e *TimestampDeltaEncoder) Write(timestampUs int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.seqCount++

	switch e.seqCount {
	case 1:
		e.buf.AppendUvarint(uint64(timestampUs)) //nolint:gosec
	case 2:
		e.prevDelta = timestampUs - e.prevTS
		e.buf.AppendUvarint(zigzag(e.prevDelta))
	default:
		delta := timestampUs - e.prevTS
		e.buf.AppendUvarint(zigzag(delta - e.prevDelta))
		e.prevDelta = delta
	}

	e.prevTS = timestampUs
}

// WriteSlice appends timestamps in order.
func (e *TimestampDeltaEncoder) WriteSlice(timestampsUs []int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	// regular rides need about one byte per entry
	e.buf.Grow(len(timestampsUs) + 2*binary.MaxVarintLen64)
	for _, ts := range timestampsUs {
		e.Write(ts)
	}
}

// Bytes returns the encoded column.
func (e *TimestampDeltaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of timestamps written since creation or Finish.
func (e *TimestampDeltaEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *TimestampDeltaEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards the encoded data and restarts the delta sequence.
func (e *TimestampDeltaEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.prevTS = 0
	e.prevDelta = 0
	e.count = 0
	e.seqCount = 0
}

// Finish returns the buffer to the pool.
func (e *TimestampDeltaEncoder) Finish() {
	if e.buf != nil {
		pool.PutSeriesBuffer(e.buf)
		e.buf = nil
	}
	e.prevTS = 0
	e.prevDelta = 0
	e.count = 0
	e.seqCount = 0
}

// TimestampDeltaDecoder decodes columns written by TimestampDeltaEncoder.
type TimestampDeltaDecoder struct{}

var _ ColumnarDecoder[int64] = TimestampDeltaDecoder{}

// NewTimestampDeltaDecoder returns a delta-of-delta decoder.
func NewTimestampDeltaDecoder() TimestampDeltaDecoder {
	return TimestampDeltaDecoder{}
}

// All yields up to count timestamps.
func (d TimestampDeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		var (
			offset    int
			cur       int64
			prevDelta int64
		)

		for i := range count {
			v, next, ok := readUvarint(data, offset)
			if !ok {
				return
			}
			offset = next

			switch i {
			case 0:
				cur = int64(v) //nolint:gosec
			case 1:
				prevDelta = unzigzag(v)
				cur += prevDelta
			default:
				prevDelta += unzigzag(v)
				cur += prevDelta
			}

			if !yield(cur) {
				return
			}
		}
	}
}

// Decode returns exactly count timestamps. Each timestamp takes at least one
// byte, so a count larger than data is rejected without allocating.
func (d TimestampDeltaDecoder) Decode(data []byte, count int) ([]int64, error) {
	if count < 0 || count > len(data) {
		return nil, fmt.Errorf("%w: delta timestamps: %d bytes cannot hold %d entries", errs.ErrCorruptPayload, len(data), count)
	}

	out := make([]int64, 0, count)
	for ts := range d.All(data, count) {
		out = append(out, ts)
	}

	if len(out) != count {
		return nil, fmt.Errorf("%w: delta timestamps: decoded %d of %d", errs.ErrCorruptPayload, len(out), count)
	}

	return out, nil
}
