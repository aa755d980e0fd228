package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
//
// Metric names are hashed with ID to produce the identifiers stored in
// series blobs.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Fingerprint computes the xxHash64 of raw bytes, such as the contents of a
// telemetry file. It is used as the telemetry cache key.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Hex formats a hash as a fixed-width 16 digit lowercase hex string.
func Hex(h uint64) string {
	const digits = "0123456789abcdef"

	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = digits[h&0xf]
		h >>= 4
	}

	return string(buf[:])
}
