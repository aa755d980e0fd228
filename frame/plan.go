package frame

import (
	"fmt"
	"time"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/telemetry"
)

// TailPolicy decides what happens to frames after the last telemetry sample.
type TailPolicy uint8

const (
	// TailStop stops requesting frames once the telemetry is exhausted.
	TailStop TailPolicy = iota + 1
	// TailClamp keeps producing frames to the end of the video; the aligner
	// reports values clamped to the final interval.
	TailClamp
)

func (p TailPolicy) String() string {
	switch p {
	case TailStop:
		return "stop"
	case TailClamp:
		return "clamp"
	default:
		return fmt.Sprintf("tail(%d)", uint8(p))
	}
}

// ParseTailPolicy parses "stop" or "clamp".
func ParseTailPolicy(s string) (TailPolicy, error) {
	switch s {
	case "stop":
		return TailStop, nil
	case "clamp":
		return TailClamp, nil
	default:
		return 0, fmt.Errorf("unknown tail policy %q", s)
	}
}

// Window is an inclusive range of frame indices to align.
type Window struct {
	First int
	Last  int
	// Skipped is the number of leading frames that precede the telemetry.
	Skipped int
	// Trailing is the number of frames after Last, or -1 when the frame count
	// is unknown.
	Trailing int
}

// Len returns the number of frames in the window.
func (w Window) Len() int {
	if w.Last < w.First {
		return 0
	}

	return w.Last - w.First + 1
}

// Contains reports whether frame i is inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.First && i <= w.Last
}

// Plan computes the frames of clock that series covers.
//
// First is the first frame at or after the first sample. Under TailStop, Last
// is the last frame at or before the final sample; under TailClamp it is the
// last frame of the video. When the clock has no frame count, TailClamp is
// treated as TailStop.
//
// Returns errs.ErrNoCoverage when no frame falls inside the series, whatever
// the tail policy.
func Plan(clock *Clock, series *telemetry.Series, tail TailPolicy) (Window, error) {
	if series.Len() == 0 {
		return Window{}, errs.ErrEmptySeries
	}

	first := clock.IndexAtOrAfter(series.Start())
	if clock.count > 0 && first >= clock.count {
		return Window{}, fmt.Errorf("video ends at %s before telemetry starts at %s: %w",
			clock.At(clock.count-1).Format(time.RFC3339), series.Start().Format(time.RFC3339), errs.ErrNoCoverage)
	}

	last := clock.IndexAtOrBefore(series.End())
	if clock.count > 0 && last > clock.count-1 {
		last = clock.count - 1
	}
	if last < first {
		return Window{}, fmt.Errorf("telemetry ends at %s before video starts at %s: %w",
			series.End().Format(time.RFC3339), clock.start.Format(time.RFC3339), errs.ErrNoCoverage)
	}
	if tail == TailClamp && clock.count > 0 {
		last = clock.count - 1
	}

	w := Window{First: first, Last: last, Skipped: first, Trailing: -1}
	if clock.count > 0 {
		w.Trailing = clock.count - 1 - last
	}

	return w, nil
}
