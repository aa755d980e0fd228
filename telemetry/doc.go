// Package telemetry holds the immutable telemetry series that the aligner
// walks: timestamped samples carrying a fixed set of optional metrics.
//
// A Series is built once from decoder records, validated, and then only read.
// It carries no search or interpolation logic; see package align for that.
//
// # Absence
//
// Every metric is independently optional. An absent metric means "unknown at
// this instant" and is represented by the zero Value, never by a numeric
// sentinel, so a genuine zero (zero watts while coasting) stays distinct from
// a missing reading.
package telemetry
