package encoding

import "encoding/binary"

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

func unzigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1) //nolint:gosec
}

// readUvarint decodes a uvarint at offset and returns the next offset.
func readUvarint(data []byte, offset int) (uint64, int, bool) {
	if offset >= len(data) {
		return 0, offset, false
	}
	if b := data[offset]; b < 0x80 {
		return uint64(b), offset + 1, true
	}

	v, n := binary.Uvarint(data[offset:])
	if n <= 0 {
		return 0, offset, false
	}

	return v, offset + n, true
}
