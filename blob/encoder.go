package blob

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/arloliu/fitlay/compress"
	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/internal/encoding"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/internal/pool"
	"github.com/arloliu/fitlay/section"
	"github.com/arloliu/fitlay/telemetry"
)

// SeriesEncoder turns a telemetry.Series into a blob. It holds only its
// configuration and may be reused and shared.
type SeriesEncoder struct {
	cfg   encoderConfig
	codec compress.Codec
}

// NewSeriesEncoder returns an encoder configured by opts.
func NewSeriesEncoder(opts ...EncoderOption) (*SeriesEncoder, error) {
	cfg := encoderConfig{flag: section.NewSeriesFlag()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.flag.Compression)
	if err != nil {
		return nil, err
	}

	return &SeriesEncoder{cfg: cfg, codec: codec}, nil
}

// Compression returns the configured payload compression.
func (e *SeriesEncoder) Compression() format.CompressionType {
	return e.cfg.flag.Compression
}

// Encode serializes series. The returned slice is owned by the caller.
func (e *SeriesEncoder) Encode(series *telemetry.Series) ([]byte, error) {
	n := series.Len()
	if n == 0 {
		return nil, errs.ErrEmptySeries
	}
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", errs.ErrTooManySamples, n)
	}

	header := section.NewSeriesHeader(series.Start())
	header.Flag = e.cfg.flag
	header.SampleCount = uint32(n) //nolint:gosec
	engine := header.Flag.GetEndianEngine()

	buf := pool.GetSeriesBuffer()
	defer pool.PutSeriesBuffer(buf)

	if err := e.appendTimestamps(buf, series); err != nil {
		return nil, err
	}

	present := make([]bool, n)
	for _, m := range telemetry.Metrics() {
		if series.Coverage(m) == 0 {
			continue
		}
		header.MetricMask |= 1 << m

		buf.B = engine.AppendUint64(buf.B, m.ID())
		appendMetric(buf, series, m, present)
	}

	stored, err := e.codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", errs.ErrTooManySamples, len(stored))
	}

	header.PayloadLength = uint32(len(stored)) //nolint:gosec
	header.Checksum = crc32.ChecksumIEEE(stored)

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

func (e *SeriesEncoder) appendTimestamps(buf *pool.ByteBuffer, series *telemetry.Series) error {
	ts, release := pool.GetInt64Slice(series.Len())
	defer release()
	for i := range ts {
		ts[i] = series.Timestamp(i).UnixMicro()
	}

	var enc encoding.ColumnarEncoder[int64]
	switch e.cfg.flag.TimestampEncoding {
	case format.TypeRaw:
		enc = encoding.NewTimestampRawEncoder(e.cfg.flag.GetEndianEngine())
	case format.TypeDelta:
		enc = encoding.NewTimestampDeltaEncoder()
	default:
		return fmt.Errorf("%w: timestamp encoding %s", errs.ErrInvalidEncoding, e.cfg.flag.TimestampEncoding)
	}
	defer enc.Finish()

	enc.WriteSlice(ts)
	appendColumn(buf, enc.Bytes())

	return nil
}

// appendMetric writes the presence bitmap and value column of m. present is
// scratch space of series.Len() entries.
func appendMetric(buf *pool.ByteBuffer, series *telemetry.Series, m telemetry.Metric, present []bool) {
	values, release := pool.GetFloat64Slice(series.Coverage(m))
	defer release()

	for i, s := range series.Samples() {
		v, ok := s.Value(m).Get()
		present[i] = ok
		if ok {
			values = append(values, v)
		}
	}
	buf.B = encoding.AppendBitmap(buf.B, present)

	enc := encoding.NewNumericGorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice(values)
	appendColumn(buf, enc.Bytes())
}

func appendColumn(buf *pool.ByteBuffer, col []byte) {
	buf.Grow(binary.MaxVarintLen64 + len(col))
	buf.AppendUvarint(uint64(len(col)))
	buf.MustWrite(col)
}

// Encode serializes series with a default encoder configured by opts.
func Encode(series *telemetry.Series, opts ...EncoderOption) ([]byte, error) {
	enc, err := NewSeriesEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(series)
}
