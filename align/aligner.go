package align

import (
	"fmt"
	"time"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/telemetry"
)

// Aligner maps frame times onto a telemetry series.
type Aligner struct {
	series *telemetry.Series
	cfg    *config

	index   int
	current telemetry.Sample
	next    telemetry.Sample

	epoch           time.Time
	lastAdvanceTime time.Time
	lastQuery       time.Time
	queried         bool
	advances        int
}

// New returns an Aligner positioned on the first interval of series.
//
// epoch is the fixed reference instant of the run, normally the time of the
// first frame to align; LastAdvanceOffset is reported relative to it and OriginAdvance uses
// it as the origin of the first interval.
//
// Returns errs.ErrEmptySeries for a nil or empty series and
// errs.ErrSeriesTooShort when the series has a single sample.
func New(series *telemetry.Series, epoch time.Time, opts ...Option) (*Aligner, error) {
	if series.Len() == 0 {
		return nil, errs.ErrEmptySeries
	}
	if series.Len() < 2 {
		return nil, fmt.Errorf("%d sample: %w", series.Len(), errs.ErrSeriesTooShort)
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	a := &Aligner{
		series:          series,
		cfg:             cfg,
		epoch:           epoch,
		lastAdvanceTime: epoch,
	}
	a.load(0)

	return a, nil
}

// load positions the cursor on interval i. Callers guarantee
// 0 <= i <= series.Len()-2.
func (a *Aligner) load(i int) {
	a.index = i
	a.current, _ = a.series.At(i)
	a.next, _ = a.series.At(i + 1)
}

func (a *Aligner) terminal() bool {
	return a.index == a.series.Len()-2
}

// Align returns the metrics at frameTime.
//
// Frame times must be submitted in non-decreasing order; an earlier time than
// the previous query returns errs.ErrTimeRewind. A frame time before the first
// sample returns errs.ErrSeriesExhausted: callers skip such frames before
// alignment starts. Frame times past the last sample are clamped to the final
// interval.
func (a *Aligner) Align(frameTime time.Time) (AlignedSample, error) {
	if frameTime.Before(a.series.Start()) {
		return AlignedSample{}, fmt.Errorf("frame at %s, series starts at %s: %w",
			frameTime.Format(time.RFC3339Nano), a.series.Start().Format(time.RFC3339Nano),
			errs.ErrSeriesExhausted)
	}
	if a.queried && frameTime.Before(a.lastQuery) {
		return AlignedSample{}, fmt.Errorf("frame at %s after %s: %w",
			frameTime.Format(time.RFC3339Nano), a.lastQuery.Format(time.RFC3339Nano),
			errs.ErrTimeRewind)
	}
	a.queried = true
	a.lastQuery = frameTime

	// one step at a time so no interval is skipped
	for !frameTime.Before(a.next.Timestamp) && !a.terminal() {
		a.load(a.index + 1)
		a.lastAdvanceTime = frameTime
		a.advances++
	}

	fraction := a.fraction(frameTime)

	out := AlignedSample{
		Time:     frameTime,
		Index:    a.index,
		Fraction: fraction,
		Terminal: a.terminal(),
		Current:  a.current,
		Next:     a.next,
	}
	for m := range out.values {
		metric := telemetry.Metric(m)
		out.values[m] = blend(a.cfg.policies[m], a.current.Value(metric), a.next.Value(metric), fraction)
	}

	return out, nil
}

func (a *Aligner) fraction(frameTime time.Time) float64 {
	span := a.next.Timestamp.Sub(a.current.Timestamp).Microseconds()
	if span <= 0 {
		return 0
	}

	origin := a.current.Timestamp
	if a.cfg.origin == OriginAdvance {
		origin = a.lastAdvanceTime
	}

	f := float64(frameTime.Sub(origin).Microseconds()) / float64(span)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// Index returns the index of the current sample of the bracketing interval.
func (a *Aligner) Index() int {
	return a.index
}

// Advances returns how many single-step advances the cursor has made.
func (a *Aligner) Advances() int {
	return a.advances
}

// LastAdvanceTime returns the frame time at which the cursor last advanced,
// or the epoch if it has not advanced yet.
func (a *Aligner) LastAdvanceTime() time.Time {
	return a.lastAdvanceTime
}

// LastAdvanceOffset returns LastAdvanceTime relative to the epoch.
func (a *Aligner) LastAdvanceOffset() time.Duration {
	return a.lastAdvanceTime.Sub(a.epoch)
}

// Epoch returns the reference instant given to New.
func (a *Aligner) Epoch() time.Time {
	return a.epoch
}

// Series returns the series being aligned.
func (a *Aligner) Series() *telemetry.Series {
	return a.series
}

// Policy returns the configured policy of metric m.
func (a *Aligner) Policy(m telemetry.Metric) Policy {
	if !m.Valid() {
		return 0
	}

	return a.cfg.policies[m]
}

// Origin returns the configured fraction origin.
func (a *Aligner) Origin() Origin {
	return a.cfg.origin
}
