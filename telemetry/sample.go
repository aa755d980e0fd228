package telemetry

import "time"

// Record is one decoded telemetry reading as handed over by a decoder.
//
// A zero Timestamp means the decoder found no timestamp; Build rejects such
// records. Metrics missing from Values are absent.
type Record struct {
	Timestamp time.Time
	Values    map[Metric]float64
}

// Sample is one validated telemetry reading.
type Sample struct {
	Timestamp time.Time
	values    [numMetrics]Value
}

// NewSample returns a sample at ts with every metric absent.
func NewSample(ts time.Time) Sample {
	return Sample{Timestamp: ts}
}

// Value returns metric m, absent when m is not carried or not defined.
func (s Sample) Value(m Metric) Value {
	if !m.Valid() {
		return Value{}
	}

	return s.values[m]
}

// Has reports whether metric m is present.
func (s Sample) Has(m Metric) bool {
	return s.Value(m).Valid()
}

// With returns a copy of s with metric m set to v. Undefined metrics are
// ignored.
func (s Sample) With(m Metric, v Value) Sample {
	if m.Valid() {
		s.values[m] = v
	}

	return s
}

// Present returns the metrics carried by s, in declaration order.
func (s Sample) Present() []Metric {
	var out []Metric
	for m := range numMetrics {
		if s.values[m].ok {
			out = append(out, m)
		}
	}

	return out
}

func sampleFromRecord(rec Record) Sample {
	s := Sample{Timestamp: rec.Timestamp}
	for m, v := range rec.Values {
		if m.Valid() {
			s.values[m] = Some(v)
		}
	}

	return s
}
