package blob

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/arloliu/fitlay/compress"
	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/internal/encoding"
	"github.com/arloliu/fitlay/section"
	"github.com/arloliu/fitlay/telemetry"
)

// Info summarizes a blob without decoding its columns.
type Info struct {
	Samples           int
	Metrics           []telemetry.Metric
	Start             time.Time
	TimestampEncoding format.EncodingType
	Compression       format.CompressionType
	BigEndian         bool
	Size              int
}

// Inspect validates the header and checksum of data and describes it.
func Inspect(data []byte) (Info, error) {
	header, _, err := verify(data)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Samples:           int(header.SampleCount),
		Metrics:           maskMetrics(header.MetricMask),
		Start:             header.StartTimeAsTime(),
		TimestampEncoding: header.Flag.TimestampEncoding,
		Compression:       header.Flag.Compression,
		BigEndian:         header.Flag.IsBigEndian(),
		Size:              len(data),
	}, nil
}

// Decode rebuilds the series stored in data.
func Decode(data []byte) (*telemetry.Series, error) {
	header, stored, err := verify(data)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(header.Flag.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}

	d := payloadReader{data: payload}
	count := int(header.SampleCount)
	engine := header.Flag.GetEndianEngine()

	col, err := d.column()
	if err != nil {
		return nil, fmt.Errorf("timestamp column: %w", err)
	}
	// every timestamp takes at least one byte, so the column bounds the count
	// before anything is sized from the header
	if count > len(col) {
		return nil, fmt.Errorf("%w: header claims %d samples, timestamp column has %d bytes",
			errs.ErrCorruptPayload, count, len(col))
	}

	var tsDec encoding.ColumnarDecoder[int64]
	if header.Flag.TimestampEncoding == format.TypeRaw {
		tsDec = encoding.NewTimestampRawDecoder(engine)
	} else {
		tsDec = encoding.NewTimestampDeltaDecoder()
	}
	timestamps, err := tsDec.Decode(col, count)
	if err != nil {
		return nil, err
	}
	if count > 0 && timestamps[0] != header.StartTime {
		return nil, fmt.Errorf("%w: first timestamp does not match header", errs.ErrCorruptPayload)
	}

	samples := make([]telemetry.Sample, count)
	for i, ts := range timestamps {
		samples[i] = telemetry.NewSample(time.UnixMicro(ts).UTC())
	}

	for _, want := range maskMetrics(header.MetricMask) {
		idBytes, err := d.next(8)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", want, err)
		}
		id := engine.Uint64(idBytes)
		m, ok := telemetry.MetricByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %016x", errs.ErrUnknownMetricID, id)
		}
		if m != want {
			return nil, fmt.Errorf("%w: column %s where %s expected", errs.ErrCorruptPayload, m, want)
		}

		if err := d.metric(m, samples); err != nil {
			return nil, fmt.Errorf("metric %s: %w", m, err)
		}
	}

	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrCorruptPayload, d.remaining())
	}

	return telemetry.FromSamples(samples)
}

// verify checks the header, the stored length and the checksum and returns the
// stored payload.
func verify(data []byte) (section.SeriesHeader, []byte, error) {
	header, err := section.ParseSeriesHeader(data)
	if err != nil {
		return section.SeriesHeader{}, nil, err
	}
	if header.SampleCount == 0 {
		return section.SeriesHeader{}, nil, errs.ErrEmptySeries
	}

	stored := data[section.HeaderSize:]
	if uint64(len(stored)) != uint64(header.PayloadLength) {
		return section.SeriesHeader{}, nil, fmt.Errorf("%w: payload length %d, header says %d",
			errs.ErrCorruptPayload, len(stored), header.PayloadLength)
	}
	if crc32.ChecksumIEEE(stored) != header.Checksum {
		return section.SeriesHeader{}, nil, errs.ErrChecksumMismatch
	}

	return header, stored, nil
}

func maskMetrics(mask uint16) []telemetry.Metric {
	var out []telemetry.Metric
	for _, m := range telemetry.Metrics() {
		if mask&(1<<m) != 0 {
			out = append(out, m)
		}
	}

	return out
}

type payloadReader struct {
	data []byte
	off  int
}

func (r *payloadReader) remaining() int {
	return len(r.data) - r.off
}

func (r *payloadReader) next(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", errs.ErrCorruptPayload, n, r.off)
	}
	out := r.data[r.off : r.off+n]
	r.off += n

	return out, nil
}

// column reads a uvarint length-prefixed column.
func (r *payloadReader) column() ([]byte, error) {
	length, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 || length > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: bad column length at offset %d", errs.ErrCorruptPayload, r.off)
	}
	r.off += n

	return r.next(int(length)) //nolint:gosec
}

func (r *payloadReader) metric(m telemetry.Metric, samples []telemetry.Sample) error {
	bitmap, err := r.next(encoding.BitmapSize(len(samples)))
	if err != nil {
		return err
	}
	present, err := encoding.DecodeBitmap(bitmap, len(samples))
	if err != nil {
		return err
	}

	col, err := r.column()
	if err != nil {
		return err
	}
	values, err := encoding.NewNumericGorillaDecoder().Decode(col, encoding.PopCount(present))
	if err != nil {
		return err
	}

	j := 0
	for i, ok := range present {
		if ok {
			samples[i] = samples[i].With(m, telemetry.Some(values[j]))
			j++
		}
	}

	return nil
}
