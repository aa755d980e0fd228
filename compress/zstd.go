package compress

import "github.com/arloliu/fitlay/format"

// ZstdCompressor compresses payloads with Zstandard.
//
// It gives the best ratio of the built-in codecs and is the usual choice for
// the telemetry cache, where blobs are written once and read on every rerun.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
