package align

import (
	"time"

	"github.com/arloliu/fitlay/telemetry"
)

// AlignedSample is the result of aligning one frame time.
type AlignedSample struct {
	// Time is the frame time that was aligned.
	Time time.Time
	// Index is the position of Current in the series.
	Index int
	// Fraction is the normalized position of Time inside [Current, Next],
	// clamped to [0, 1].
	Fraction float64
	// Terminal is set when the interval is the last one of the series.
	Terminal bool
	// Current and Next are the bracketing samples. Discrete fields that are
	// not worth interpolating can be read from Current directly.
	Current telemetry.Sample
	Next    telemetry.Sample

	values [telemetry.NumMetrics]telemetry.Value
}

// Value returns the evaluated value of metric m.
func (s AlignedSample) Value(m telemetry.Metric) telemetry.Value {
	if !m.Valid() {
		return telemetry.None()
	}

	return s.values[m]
}

// Values returns the present metrics and their values.
func (s AlignedSample) Values() map[telemetry.Metric]float64 {
	out := make(map[telemetry.Metric]float64)
	for i, v := range s.values {
		if f, ok := v.Get(); ok {
			out[telemetry.Metric(i)] = f
		}
	}

	return out
}

// Exhausted reports whether Time lies at or past the last sample of the
// series, meaning the telemetry no longer covers it.
func (s AlignedSample) Exhausted() bool {
	return s.Terminal && !s.Time.Before(s.Next.Timestamp)
}
