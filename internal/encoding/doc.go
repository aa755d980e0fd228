// Package encoding implements the column encodings of the series blob.
//
// A series blob stores one timestamp column followed by one value column per
// metric. Timestamps are microseconds since the Unix epoch, encoded either
// raw (fixed 8 bytes, byte order chosen by the blob) or as zigzag
// delta-of-delta varints. Value columns hold only the present samples of a
// metric, Gorilla XOR compressed, and are paired with a presence bitmap that
// records which samples carry the metric.
//
// Encoders accumulate into pooled buffers and must be released with Finish.
// Decoders are stateless values and report truncated or malformed input with
// errs.ErrCorruptPayload.
package encoding
