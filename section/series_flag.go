package section

import (
	"fmt"

	"github.com/arloliu/fitlay/endian"
	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
)

// SeriesFlag holds the single-byte header fields that select how the rest of
// the blob is read.
type SeriesFlag struct {
	Version           uint8
	Options           uint8
	TimestampEncoding format.EncodingType
	Compression       format.CompressionType
}

// NewSeriesFlag returns the default flag: little-endian, delta timestamps, no
// compression.
func NewSeriesFlag() SeriesFlag {
	return SeriesFlag{
		Version:           Version,
		TimestampEncoding: format.TypeDelta,
		Compression:       format.CompressionNone,
	}
}

func (f SeriesFlag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

func (f *SeriesFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

func (f *SeriesFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine for the flag's byte order.
func (f SeriesFlag) GetEndianEngine() endian.EndianEngine {
	return endian.FromFlag(f.IsBigEndian())
}

// Validate checks version, option bits, encoding and compression.
func (f SeriesFlag) Validate() error {
	if f.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, f.Version)
	}
	if f.Options&ReservedOptions != 0 {
		return fmt.Errorf("%w: reserved option bits 0x%02x", errs.ErrInvalidEncoding, f.Options)
	}
	if f.TimestampEncoding != format.TypeRaw && f.TimestampEncoding != format.TypeDelta {
		return fmt.Errorf("%w: timestamp encoding %s", errs.ErrInvalidEncoding, f.TimestampEncoding)
	}
	if !f.Compression.Valid() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, f.Compression)
	}

	return nil
}
