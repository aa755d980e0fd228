package telemetry

import (
	"fmt"
	"iter"
	"time"

	"github.com/arloliu/fitlay/errs"
)

// Series is an ordered, immutable sequence of samples with non-decreasing
// timestamps. A Series is safe for concurrent readers.
type Series struct {
	samples []Sample
}

// Build validates records and returns a Series preserving their order.
//
// Returns errs.ErrEmptySeries for no records, errs.ErrMissingTimestamp when a
// record has a zero timestamp and errs.ErrUnorderedTimestamps when a
// timestamp is earlier than its predecessor. Equal timestamps are accepted.
// Metric values that are NaN or infinite are stored as absent.
func Build(records []Record) (*Series, error) {
	if len(records) == 0 {
		return nil, errs.ErrEmptySeries
	}

	samples := make([]Sample, len(records))
	for i, rec := range records {
		if rec.Timestamp.IsZero() {
			return nil, fmt.Errorf("record %d: %w", i, errs.ErrMissingTimestamp)
		}
		samples[i] = sampleFromRecord(rec)
	}

	if err := checkOrder(samples); err != nil {
		return nil, err
	}

	return &Series{samples: samples}, nil
}

// FromSamples builds a Series from already constructed samples, applying the
// same validation as Build. The slice is copied.
func FromSamples(samples []Sample) (*Series, error) {
	if len(samples) == 0 {
		return nil, errs.ErrEmptySeries
	}

	for i := range samples {
		if samples[i].Timestamp.IsZero() {
			return nil, fmt.Errorf("sample %d: %w", i, errs.ErrMissingTimestamp)
		}
	}

	if err := checkOrder(samples); err != nil {
		return nil, err
	}

	return &Series{samples: append([]Sample(nil), samples...)}, nil
}

func checkOrder(samples []Sample) error {
	for i := 1; i < len(samples); i++ {
		if samples[i].Timestamp.Before(samples[i-1].Timestamp) {
			return fmt.Errorf("sample %d at %s precedes sample %d at %s: %w",
				i, samples[i].Timestamp.Format(time.RFC3339Nano),
				i-1, samples[i-1].Timestamp.Format(time.RFC3339Nano),
				errs.ErrUnorderedTimestamps)
		}
	}

	return nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}

	return len(s.samples)
}

// At returns the sample at index i, or errs.ErrIndexOutOfRange.
func (s *Series) At(i int) (Sample, error) {
	if i < 0 || i >= s.Len() {
		return Sample{}, fmt.Errorf("index %d of %d: %w", i, s.Len(), errs.ErrIndexOutOfRange)
	}

	return s.samples[i], nil
}

// Timestamp returns the timestamp of sample i. It panics if i is out of range;
// use it only where the index is known to be valid.
func (s *Series) Timestamp(i int) time.Time {
	return s.samples[i].Timestamp
}

// Start returns the timestamp of the first sample.
func (s *Series) Start() time.Time {
	return s.samples[0].Timestamp
}

// End returns the timestamp of the last sample.
func (s *Series) End() time.Time {
	return s.samples[len(s.samples)-1].Timestamp
}

// Duration returns End minus Start.
func (s *Series) Duration() time.Duration {
	return s.End().Sub(s.Start())
}

// Coverage returns how many samples carry metric m.
func (s *Series) Coverage(m Metric) int {
	n := 0
	for i := range s.samples {
		if s.samples[i].Has(m) {
			n++
		}
	}

	return n
}

// Samples iterates over the samples in order.
func (s *Series) Samples() iter.Seq2[int, Sample] {
	return func(yield func(int, Sample) bool) {
		for i := range s.samples {
			if !yield(i, s.samples[i]) {
				return
			}
		}
	}
}
