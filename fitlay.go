// Package fitlay aligns cycling telemetry recorded in FIT activity files with
// the frames of a video so each frame can show the power, heart rate and speed
// of the instant it was captured.
//
// # Core Features
//
//   - Per-frame alignment of irregular telemetry samples, with stepped or
//     linearly interpolated metrics
//   - Frame planning that skips frames before the ride and stops, or clamps,
//     after it
//   - Compact series blobs (delta timestamps, Gorilla values, optional
//     Zstd, S2 or LZ4 compression) for caching decoded telemetry
//   - ASS subtitle rendering and ffmpeg burn-in of the overlay
//
// # Basic Usage
//
// Aligning a series against a 30 fps video:
//
//	series, _ := fitlay.BuildSeries(records)
//	clock, _ := fitlay.NewClock(videoStart, 30, 0)
//	stats, err := fitlay.Align(ctx, series, clock, pipeline.SinkFunc(func(f pipeline.Frame) error {
//	    fmt.Println(f.Index, f.Sample.Value(telemetry.Power))
//	    return nil
//	}))
//
// Storing a decoded series:
//
//	data, _ := fitlay.EncodeSeries(series)
//	series, _ = fitlay.DecodeSeries(data)
//
// # Package Structure
//
// This package provides top-level wrappers for the common cases. The
// telemetry, align, frame, pipeline, blob and render packages give finer
// control.
package fitlay

import (
	"context"
	"time"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/blob"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/frame"
	"github.com/arloliu/fitlay/internal/hash"
	"github.com/arloliu/fitlay/pipeline"
	"github.com/arloliu/fitlay/telemetry"
)

var defaultBlobOptions = []blob.EncoderOption{
	blob.WithLittleEndian(),
	blob.WithTimestampEncoding(format.TypeDelta),
	blob.WithCompression(format.CompressionZstd),
}

// BuildSeries validates records and returns them as a Series.
//
// Records must be in non-decreasing timestamp order and every record needs a
// timestamp.
func BuildSeries(records []telemetry.Record) (*telemetry.Series, error) {
	return telemetry.Build(records)
}

// NewAligner returns an aligner over series whose offsets are measured from
// epoch, normally the video start time.
//
// Example:
//
//	aligner, err := fitlay.NewAligner(series, videoStart,
//	    align.WithStepped(telemetry.Power),
//	)
func NewAligner(series *telemetry.Series, epoch time.Time, opts ...align.Option) (*align.Aligner, error) {
	return align.New(series, epoch, opts...)
}

// NewClock returns a frame clock starting at start with rate frames per
// second. A count of zero means the number of frames is unknown.
func NewClock(start time.Time, rate float64, count int) (*frame.Clock, error) {
	return frame.NewClock(start, rate, count)
}

// Align runs the alignment pipeline and writes every covered frame to sink.
func Align(ctx context.Context, series *telemetry.Series, clock *frame.Clock, sink pipeline.Sink, opts ...pipeline.Option) (pipeline.Stats, error) {
	p, err := pipeline.New(series, clock, sink, opts...)
	if err != nil {
		return pipeline.Stats{LastIndex: -1, Trailing: -1}, err
	}

	return p.Run(ctx)
}

// EncodeSeries encodes series as a blob with the default settings: little
// endian, delta timestamps and Zstd compression. Extra options override them.
func EncodeSeries(series *telemetry.Series, opts ...blob.EncoderOption) ([]byte, error) {
	allOpts := append(append([]blob.EncoderOption{}, defaultBlobOptions...), opts...)
	return blob.Encode(series, allOpts...)
}

// DecodeSeries decodes a blob produced by EncodeSeries or blob.Encode.
func DecodeSeries(data []byte) (*telemetry.Series, error) {
	return blob.Decode(data)
}

// MetricID returns the stable 64-bit ID of a metric name, as stored in
// series blobs.
func MetricID(name string) uint64 {
	return hash.ID(name)
}
