// Package frame maps video frame indices to absolute timestamps and plans
// which frames of a video are covered by a telemetry series.
//
// Planning is the explicit pre-alignment phase: frames that precede the first
// telemetry sample are skipped before any alignment happens, and, unless the
// tail is clamped, frames after the last sample are not requested at all.
package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/fitlay/errs"
)

// Clock computes frame timestamps as start + index/rate.
type Clock struct {
	start time.Time
	rate  float64
	count int
}

// NewClock returns a clock for a video starting at start with rate frames per
// second and count frames. A count of zero means the frame count is unknown.
func NewClock(start time.Time, rate float64, count int) (*Clock, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("rate %v: %w", rate, errs.ErrInvalidFrameRate)
	}
	if count < 0 {
		return nil, fmt.Errorf("count %d: %w", count, errs.ErrInvalidFrameCount)
	}

	return &Clock{start: start, rate: rate, count: count}, nil
}

// Start returns the time of frame 0.
func (c *Clock) Start() time.Time {
	return c.start
}

// Rate returns the frame rate in frames per second.
func (c *Clock) Rate() float64 {
	return c.rate
}

// Count returns the number of frames, zero when unknown.
func (c *Clock) Count() int {
	return c.count
}

// Offset returns the time of frame i relative to Start, rounded to the
// nearest microsecond. It is computed from the index, so rounding errors do
// not accumulate over long videos.
func (c *Clock) Offset(i int) time.Duration {
	us := math.Round(float64(i) * 1e6 / c.rate)

	return time.Duration(us) * time.Microsecond
}

// At returns the absolute time of frame i.
func (c *Clock) At(i int) time.Time {
	return c.start.Add(c.Offset(i))
}

// FrameDuration returns the nominal duration of one frame.
func (c *Clock) FrameDuration() time.Duration {
	return time.Duration(math.Round(1e9 / c.rate))
}

// IndexAtOrAfter returns the first frame index whose time is not before t.
// Times before Start map to frame 0.
func (c *Clock) IndexAtOrAfter(t time.Time) int {
	d := t.Sub(c.start)
	if d <= 0 {
		return 0
	}

	i := int(math.Floor(d.Seconds() * c.rate))
	for i > 0 && !c.At(i-1).Before(t) {
		i--
	}
	for c.At(i).Before(t) {
		i++
	}

	return i
}

// IndexAtOrBefore returns the last frame index whose time is not after t, or
// -1 when t precedes Start.
func (c *Clock) IndexAtOrBefore(t time.Time) int {
	if t.Before(c.start) {
		return -1
	}

	i := c.IndexAtOrAfter(t)
	if c.At(i).After(t) {
		i--
	}

	return i
}
