// Package compress provides the payload codecs of the series blob.
//
// A series blob payload is first encoded column by column (delta-of-delta
// timestamps, presence bitmaps, Gorilla values) and then optionally passed
// through one of the codecs below:
//
//   - None: payload stored as encoded
//   - Zstd: best ratio, used for cached rides that are read rarely
//   - S2: fast, good default for short rides
//   - LZ4: fastest decompression
//
// Codecs are stateless values; the zstd and lz4 implementations keep pooled
// encoder state internally, so every codec is safe for concurrent use.
//
// Zstd is implemented with github.com/klauspost/compress/zstd. Building with
// the gozstd tag (and cgo enabled) switches it to github.com/valyala/gozstd.
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(payload)
package compress
