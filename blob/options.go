package blob

import (
	"fmt"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/section"
)

type encoderConfig struct {
	flag section.SeriesFlag
}

// EncoderOption configures a SeriesEncoder.
type EncoderOption = options.Option[*encoderConfig]

// WithTimestampEncoding selects format.TypeRaw or format.TypeDelta (default)
// for the timestamp column.
func WithTimestampEncoding(enc format.EncodingType) EncoderOption {
	return options.New(func(c *encoderConfig) error {
		if enc != format.TypeRaw && enc != format.TypeDelta {
			return fmt.Errorf("%w: timestamp encoding %s", errs.ErrInvalidEncoding, enc)
		}
		c.flag.TimestampEncoding = enc

		return nil
	})
}

// WithCompression selects the payload compression. Default is none.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *encoderConfig) error {
		if !comp.Valid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, comp)
		}
		c.flag.Compression = comp

		return nil
	})
}

// WithLittleEndian stores fixed-width fields little-endian (default).
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *encoderConfig) {
		c.flag.WithLittleEndian()
	})
}

// WithBigEndian stores fixed-width fields big-endian.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *encoderConfig) {
		c.flag.WithBigEndian()
	})
}
