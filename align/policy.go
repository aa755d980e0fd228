package align

import (
	"fmt"

	"github.com/arloliu/fitlay/telemetry"
)

// Policy selects how a metric is evaluated inside the bracketing interval.
type Policy uint8

const (
	// Interpolated blends linearly between the bracketing samples.
	Interpolated Policy = iota + 1
	// Stepped holds the current sample's value until the interval advances.
	Stepped
)

func (p Policy) String() string {
	switch p {
	case Interpolated:
		return "interpolated"
	case Stepped:
		return "stepped"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "interpolated" or "stepped".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "interpolated", "linear":
		return Interpolated, nil
	case "stepped", "step":
		return Stepped, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

// DefaultPolicy returns the policy used for m when none is configured.
// Continuous signals are interpolated; sparse or quantized ones are stepped.
func DefaultPolicy(m telemetry.Metric) Policy {
	switch m {
	case telemetry.HeartRate, telemetry.Cadence, telemetry.FractionalCadence, telemetry.Temperature:
		return Stepped
	default:
		return Interpolated
	}
}

// Origin selects the instant from which elapsed time inside an interval is
// measured when computing the interpolation fraction.
type Origin uint8

const (
	// OriginSample measures from the current sample's timestamp.
	OriginSample Origin = iota + 1
	// OriginAdvance measures from the frame time at which the interval became
	// current. Before the first advance the aligner's epoch is used.
	OriginAdvance
)

func (o Origin) String() string {
	switch o {
	case OriginSample:
		return "sample"
	case OriginAdvance:
		return "advance"
	default:
		return fmt.Sprintf("origin(%d)", uint8(o))
	}
}

// ParseOrigin parses "sample" or "advance".
func ParseOrigin(s string) (Origin, error) {
	switch s {
	case "sample":
		return OriginSample, nil
	case "advance":
		return OriginAdvance, nil
	default:
		return 0, fmt.Errorf("unknown fraction origin %q", s)
	}
}

// blend evaluates one metric for the given fraction.
func blend(p Policy, cur, next telemetry.Value, fraction float64) telemetry.Value {
	if p == Stepped {
		return cur
	}

	a, okA := cur.Get()
	b, okB := next.Get()
	switch {
	case okA && okB:
		// exact at both ends: f=0 yields a, f=1 yields b
		return telemetry.Some((1-fraction)*a + fraction*b)
	case okA:
		return cur
	case okB:
		return next
	default:
		return telemetry.None()
	}
}
