// Package format defines the encoding and compression identifiers stored in
// series blob headers.
package format

import (
	"fmt"
	"strings"
)

type (
	EncodingType    uint8
	CompressionType uint8
)

const (
	TypeRaw     EncodingType = 0x1 // TypeRaw stores timestamps as fixed-width microseconds.
	TypeDelta   EncodingType = 0x2 // TypeDelta stores timestamps as zigzag delta-of-delta varints.
	TypeGorilla EncodingType = 0x3 // TypeGorilla stores values with Gorilla XOR compression.

	CompressionNone CompressionType = 0x1 // CompressionNone leaves the payload uncompressed.
	CompressionZstd CompressionType = 0x2 // CompressionZstd compresses the payload with Zstandard.
	CompressionS2   CompressionType = 0x3 // CompressionS2 compresses the payload with S2.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 compresses the payload with LZ4.
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	case TypeGorilla:
		return "Gorilla"
	default:
		return "Unknown"
	}
}

// Valid reports whether e is a known encoding.
func (e EncodingType) Valid() bool {
	return e >= TypeRaw && e <= TypeGorilla
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseEncodingType maps a case-insensitive name to its EncodingType.
func ParseEncodingType(name string) (EncodingType, error) {
	for _, e := range []EncodingType{TypeRaw, TypeDelta, TypeGorilla} {
		if strings.EqualFold(name, e.String()) {
			return e, nil
		}
	}

	return 0, fmt.Errorf("unknown encoding %q", name)
}

// ParseCompressionType maps a case-insensitive name to its CompressionType.
// The empty string selects CompressionNone.
func ParseCompressionType(name string) (CompressionType, error) {
	if name == "" {
		return CompressionNone, nil
	}

	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown compression %q", name)
}
