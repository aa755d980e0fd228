// Package align walks a telemetry series in lock-step with a monotonically
// increasing sequence of frame timestamps.
//
// An Aligner keeps a bracketing interval [current, next) over the series and,
// for each frame time, advances the interval one sample at a time until it
// brackets the frame, then evaluates every metric with its Policy:
//
//   - Interpolated metrics blend linearly between current and next. When only
//     one side is present that side is held; when neither is, the result is
//     absent.
//   - Stepped metrics report the current sample's value unchanged until the
//     interval advances.
//
// The cursor only moves forward and stops at the last interval. Frame times
// past the last sample are clamped to the final interval rather than failing;
// callers that should stop once telemetry ends check AlignedSample.Exhausted
// or plan the frame window with package frame.
//
// An Aligner is not safe for concurrent use. The Series it reads may be shared.
package align
