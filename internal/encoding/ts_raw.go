package encoding

import (
	"fmt"
	"iter"

	"github.com/arloliu/fitlay/endian"
	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/pool"
)

const rawTimestampSize = 8

// TimestampRawEncoder stores each timestamp as 8 bytes in the given byte order.
type TimestampRawEncoder struct {
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
	count  int
}

var _ ColumnarEncoder[int64] = (*TimestampRawEncoder)(nil)

// NewTimestampRawEncoder returns a raw encoder using engine.
func NewTimestampRawEncoder(engine endian.EndianEngine) *TimestampRawEncoder {
	return &TimestampRawEncoder{engine: engine, buf: pool.GetSeriesBuffer()}
}

func (e *TimestampRawEncoder) Write(timestampUs int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(timestampUs)) //nolint:gosec
}

func (e *TimestampRawEncoder) WriteSlice(timestampsUs []int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(len(timestampsUs) * rawTimestampSize)
	for _, ts := range timestampsUs {
		e.Write(ts)
	}
}

func (e *TimestampRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *TimestampRawEncoder) Len() int { return e.count }

func (e *TimestampRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *TimestampRawEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.count = 0
}

func (e *TimestampRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutSeriesBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// TimestampRawDecoder decodes columns written by TimestampRawEncoder.
type TimestampRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[int64] = TimestampRawDecoder{}

// NewTimestampRawDecoder returns a raw decoder using engine.
func NewTimestampRawDecoder(engine endian.EndianEngine) TimestampRawDecoder {
	return TimestampRawDecoder{engine: engine}
}

func (d TimestampRawDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := range count {
			off := i * rawTimestampSize
			if off+rawTimestampSize > len(data) {
				return
			}
			if !yield(int64(d.engine.Uint64(data[off:]))) { //nolint:gosec
				return
			}
		}
	}
}

// Decode requires data to hold exactly count timestamps.
func (d TimestampRawDecoder) Decode(data []byte, count int) ([]int64, error) {
	if count < 0 || count > len(data)/rawTimestampSize || len(data) != count*rawTimestampSize {
		return nil, fmt.Errorf("%w: raw timestamps: %d bytes for %d entries", errs.ErrCorruptPayload, len(data), count)
	}

	out := make([]int64, 0, count)
	for ts := range d.All(data, count) {
		out = append(out, ts)
	}

	return out, nil
}
