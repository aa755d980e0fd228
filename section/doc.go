// Package section defines the fixed 32-byte header of a series blob.
//
// Layout (multi-byte fields use the byte order selected by the flag):
//
//	0-3    magic "FTLY"
//	4      format version
//	5      option bits (bit 0: big-endian)
//	6      timestamp encoding (format.EncodingType)
//	7      payload compression (format.CompressionType)
//	8-11   sample count
//	12-13  metric bitmask, bit i set when telemetry.Metric(i) has a column
//	14-15  reserved, zero
//	16-23  first sample time, Unix microseconds
//	24-27  stored payload length
//	28-31  CRC32 (IEEE) of the stored payload
package section
