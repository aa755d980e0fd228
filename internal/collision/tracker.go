// Package collision detects 64-bit ID collisions between metric names.
package collision

import (
	"fmt"

	"github.com/arloliu/fitlay/errs"
)

// Tracker records metric names with their IDs and rejects a name whose ID is
// already taken.
type Tracker struct {
	byID  map[uint64]string
	names []string
}

// NewTracker returns an empty tracker sized for n names.
func NewTracker(n int) *Tracker {
	return &Tracker{
		byID:  make(map[uint64]string, n),
		names: make([]string, 0, n),
	}
}

// Track registers name under id.
//
// Returns errs.ErrInvalidMetricName for an empty name, errs.ErrDuplicateMetric
// when name was already tracked, and errs.ErrHashCollision when another name
// owns id.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidMetricName
	}

	if existing, ok := t.byID[id]; ok {
		if existing == name {
			return fmt.Errorf("%q: %w", name, errs.ErrDuplicateMetric)
		}

		return fmt.Errorf("%q and %q (id %016x): %w", existing, name, id, errs.ErrHashCollision)
	}

	t.byID[id] = name
	t.names = append(t.names, name)

	return nil
}

// Lookup returns the name tracked under id.
func (t *Tracker) Lookup(id uint64) (string, bool) {
	name, ok := t.byID[id]
	return name, ok
}

// Names returns the tracked names in registration order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears the tracker, keeping its capacity.
func (t *Tracker) Reset() {
	clear(t.byID)
	t.names = t.names[:0]
}
