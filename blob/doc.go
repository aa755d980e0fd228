// Package blob encodes a telemetry.Series into a compact, checksummed byte
// blob and decodes it back.
//
// The blob is what the telemetry cache stores, so a long ride decoded from a
// FIT file once can be reloaded without parsing the file again. A blob is a
// fixed section.SeriesHeader followed by the payload:
//
//	uvarint length, timestamp column (raw or delta-of-delta)
//	for every metric present in the header bitmask, in metric order:
//	    8-byte metric ID (xxHash64 of the metric name)
//	    presence bitmap, one bit per sample
//	    uvarint length, Gorilla column of the present values
//
// The payload is optionally compressed as a whole, and the header carries the
// CRC32 of the stored bytes.
//
// Encoding:
//
//	enc, err := blob.NewSeriesEncoder(blob.WithCompression(format.CompressionZstd))
//	if err != nil {
//		return err
//	}
//	data, err := enc.Encode(series)
//
// Decoding:
//
//	series, err := blob.Decode(data)
package blob
