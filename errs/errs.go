// Package errs defines the sentinel errors returned by fitlay packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context (record index, frame index, metric name) before being
// returned.
package errs

import "errors"

// Series construction and access.
var (
	ErrEmptySeries         = errors.New("telemetry series is empty")
	ErrMissingTimestamp    = errors.New("telemetry record has no timestamp")
	ErrUnorderedTimestamps = errors.New("telemetry timestamps are not in non-decreasing order")
	ErrIndexOutOfRange     = errors.New("sample index out of range")
)

// Metric registry.
var (
	ErrInvalidMetricName = errors.New("metric name must not be empty")
	ErrDuplicateMetric   = errors.New("metric registered twice")
	ErrHashCollision     = errors.New("metric names share a 64-bit id")
)

// Alignment.
var (
	ErrSeriesTooShort  = errors.New("telemetry series needs at least two samples to form an interval")
	ErrSeriesExhausted = errors.New("frame time precedes the first telemetry sample")
	ErrTimeRewind      = errors.New("frame time is earlier than the previous query")
)

// Frame clock and planning.
var (
	ErrInvalidFrameRate  = errors.New("frame rate must be a positive finite number")
	ErrInvalidFrameCount = errors.New("frame count must not be negative")
	ErrNoCoverage        = errors.New("video does not overlap the telemetry series")
)

// Series blob codec.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidMagic       = errors.New("invalid blob magic")
	ErrUnsupportedVersion = errors.New("unsupported blob version")
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrCorruptPayload     = errors.New("corrupt payload")
	ErrUnknownMetricID    = errors.New("unknown metric id")
	ErrInvalidEncoding    = errors.New("invalid encoding type")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrTooManySamples     = errors.New("too many samples for a single blob")
)

// Input adapters.
var (
	ErrNotActivity    = errors.New("telemetry file is not an activity")
	ErrNoRecords      = errors.New("telemetry file has no record messages")
	ErrNoVideoStream  = errors.New("media file has no video stream")
	ErrNoCreationTime = errors.New("media file has no creation time")
	ErrNoFrameRate    = errors.New("media file has no usable frame rate")
)
