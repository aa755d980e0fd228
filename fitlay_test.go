package fitlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/blob"
	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/pipeline"
	"github.com/arloliu/fitlay/telemetry"
)

var start = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func ride(t *testing.T) *telemetry.Series {
	t.Helper()
	records := []telemetry.Record{
		{Timestamp: start, Values: map[telemetry.Metric]float64{telemetry.Power: 100, telemetry.HeartRate: 120}},
		{Timestamp: start.Add(time.Second), Values: map[telemetry.Metric]float64{telemetry.Power: 200, telemetry.HeartRate: 130}},
		{Timestamp: start.Add(2 * time.Second), Values: map[telemetry.Metric]float64{telemetry.Power: 300, telemetry.HeartRate: 140}},
	}
	series, err := BuildSeries(records)
	require.NoError(t, err)

	return series
}

// TestAlign verifies the wrapper runs the whole pipeline
func TestAlign(t *testing.T) {
	series := ride(t)
	clock, err := NewClock(start, 2, 0)
	require.NoError(t, err)

	var power []float64
	stats, err := Align(context.Background(), series, clock, pipeline.SinkFunc(func(f pipeline.Frame) error {
		power = append(power, f.Sample.Value(telemetry.Power).Or(-1))
		return nil
	}))
	require.NoError(t, err)
	require.Equal(t, 5, stats.Frames)
	require.InDeltaSlice(t, []float64{100, 150, 200, 250, 300}, power, 1e-9)
}

// TestAlign_InvalidArguments verifies constructor errors are returned
func TestAlign_InvalidArguments(t *testing.T) {
	series := ride(t)
	clock, err := NewClock(start, 2, 0)
	require.NoError(t, err)

	stats, err := Align(context.Background(), series, clock, nil)
	require.Error(t, err)
	require.Equal(t, -1, stats.LastIndex)
}

// TestNewAligner verifies options reach the aligner
func TestNewAligner(t *testing.T) {
	aligner, err := NewAligner(ride(t), start, align.WithStepped(telemetry.Power), align.WithInterpolated(telemetry.HeartRate))
	require.NoError(t, err)
	require.Equal(t, align.Stepped, aligner.Policy(telemetry.Power))

	sample, err := aligner.Align(start.Add(500 * time.Millisecond))
	require.NoError(t, err)
	require.InDelta(t, 100.0, sample.Value(telemetry.Power).Or(0), 1e-9)
	require.InDelta(t, 125.0, sample.Value(telemetry.HeartRate).Or(0), 1e-9)
}

// TestNewClock verifies invalid rates are rejected
func TestNewClock(t *testing.T) {
	_, err := NewClock(start, 0, 0)
	require.ErrorIs(t, err, errs.ErrInvalidFrameRate)
}

// TestEncodeDecodeSeries verifies the default blob settings
func TestEncodeDecodeSeries(t *testing.T) {
	series := ride(t)

	data, err := EncodeSeries(series)
	require.NoError(t, err)

	info, err := blob.Inspect(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, info.Compression)
	require.Equal(t, format.TypeDelta, info.TimestampEncoding)

	decoded, err := DecodeSeries(data)
	require.NoError(t, err)
	require.Equal(t, series.Len(), decoded.Len())
	for i, s := range series.Samples() {
		got, err := decoded.At(i)
		require.NoError(t, err)
		require.True(t, s.Timestamp.Equal(got.Timestamp))
		require.Equal(t, s.Value(telemetry.Power), got.Value(telemetry.Power))
	}

	data, err = EncodeSeries(series, blob.WithCompression(format.CompressionNone))
	require.NoError(t, err)
	info, err = blob.Inspect(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, info.Compression)
}

// TestMetricID verifies metric IDs match the telemetry package
func TestMetricID(t *testing.T) {
	require.Equal(t, telemetry.Power.ID(), MetricID("power"))
	require.NotEqual(t, MetricID("power"), MetricID("heart_rate"))
}
