package telemetry

import (
	"math"
	"strconv"
)

// Value is an optional float64. The zero Value is absent.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value holding v. NaN and infinities are not valid
// readings and yield an absent Value.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}

	return Value{v: v, ok: true}
}

// None returns an absent Value.
func None() Value {
	return Value{}
}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

// Valid reports whether the value is present.
func (v Value) Valid() bool {
	return v.ok
}

// Or returns the value if present, def otherwise.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}

	return v.v
}

func (v Value) String() string {
	if !v.ok {
		return "<absent>"
	}

	return strconv.FormatFloat(v.v, 'g', -1, 64)
}
