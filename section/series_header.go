package section

import (
	"time"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
)

// SeriesHeader is the fixed header at the start of a series blob.
type SeriesHeader struct {
	Flag          SeriesFlag
	SampleCount   uint32
	MetricMask    uint16
	StartTime     int64 // Unix microseconds of the first sample
	PayloadLength uint32
	Checksum      uint32
}

// NewSeriesHeader returns a header with the default flag and the given start
// time. Counts and checksum are filled in by the encoder.
func NewSeriesHeader(startTime time.Time) *SeriesHeader {
	return &SeriesHeader{
		Flag:      NewSeriesFlag(),
		StartTime: startTime.UnixMicro(),
	}
}

// Bytes serializes the header into HeaderSize bytes.
func (h *SeriesHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.GetEndianEngine()

	copy(b[0:4], Magic)
	b[4] = h.Flag.Version
	b[5] = h.Flag.Options
	b[6] = uint8(h.Flag.TimestampEncoding)
	b[7] = uint8(h.Flag.Compression)
	engine.PutUint32(b[8:12], h.SampleCount)
	engine.PutUint16(b[12:14], h.MetricMask)
	engine.PutUint64(b[16:24], uint64(h.StartTime)) //nolint:gosec
	engine.PutUint32(b[24:28], h.PayloadLength)
	engine.PutUint32(b[28:32], h.Checksum)

	return b
}

// Parse reads the header from exactly HeaderSize bytes.
func (h *SeriesHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if string(data[0:4]) != Magic {
		return errs.ErrInvalidMagic
	}

	h.Flag = SeriesFlag{
		Version: data[4],
		Options: data[5],
	}
	h.Flag.TimestampEncoding = format.EncodingType(data[6])
	h.Flag.Compression = format.CompressionType(data[7])
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.SampleCount = engine.Uint32(data[8:12])
	h.MetricMask = engine.Uint16(data[12:14])
	if engine.Uint16(data[14:16]) != 0 {
		return errs.ErrInvalidEncoding
	}
	h.StartTime = int64(engine.Uint64(data[16:24])) //nolint:gosec
	h.PayloadLength = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint32(data[28:32])

	return nil
}

// StartTimeAsTime returns the first sample time in UTC.
func (h *SeriesHeader) StartTimeAsTime() time.Time {
	return time.UnixMicro(h.StartTime).UTC()
}

// ParseSeriesHeader parses the header at the start of data.
func ParseSeriesHeader(data []byte) (SeriesHeader, error) {
	if len(data) < HeaderSize {
		return SeriesHeader{}, errs.ErrInvalidHeaderSize
	}

	h := SeriesHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return SeriesHeader{}, err
	}

	return h, nil
}

// IsSeriesBlob reports whether data starts with the series blob magic.
func IsSeriesBlob(data []byte) bool {
	return len(data) >= HeaderSize && string(data[0:4]) == Magic
}
