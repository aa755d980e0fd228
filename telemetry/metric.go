package telemetry

import (
	"fmt"

	"github.com/arloliu/fitlay/internal/collision"
	"github.com/arloliu/fitlay/internal/hash"
)

// Metric identifies one named telemetry field.
type Metric uint8

const (
	Power             Metric = iota // Power in watts.
	HeartRate                       // HeartRate in beats per minute.
	Cadence                         // Cadence in revolutions per minute.
	Speed                           // Speed in meters per second.
	Distance                        // Distance in meters since the start of the activity.
	Altitude                        // Altitude in meters.
	Temperature                     // Temperature in degrees Celsius.
	AccumulatedPower                // AccumulatedPower in watts accumulated over the activity.
	FractionalCadence               // FractionalCadence in revolutions per minute.
	Latitude                        // Latitude in degrees.
	Longitude                       // Longitude in degrees.

	numMetrics
)

// NumMetrics is the number of defined metrics.
const NumMetrics = int(numMetrics)

var metricNames = [numMetrics]string{
	Power:             "power",
	HeartRate:         "heart_rate",
	Cadence:           "cadence",
	Speed:             "speed",
	Distance:          "distance",
	Altitude:          "altitude",
	Temperature:       "temperature",
	AccumulatedPower:  "accumulated_power",
	FractionalCadence: "fractional_cadence",
	Latitude:          "latitude",
	Longitude:         "longitude",
}

var (
	metricIDs    [numMetrics]uint64
	metricByName = make(map[string]Metric, numMetrics)
	metricByID   = make(map[uint64]Metric, numMetrics)
)

func init() {
	tracker := collision.NewTracker(int(numMetrics))
	for m := range numMetrics {
		name := metricNames[m]
		id := hash.ID(name)
		if err := tracker.Track(name, id); err != nil {
			panic(err)
		}
		metricIDs[m] = id
		metricByName[name] = m
		metricByID[id] = m
	}
}

// Metrics returns all defined metrics in declaration order.
func Metrics() []Metric {
	out := make([]Metric, numMetrics)
	for i := range out {
		out[i] = Metric(i)
	}

	return out
}

// Valid reports whether m is a defined metric.
func (m Metric) Valid() bool {
	return m < numMetrics
}

// Name returns the snake_case name of the metric, e.g. "heart_rate".
func (m Metric) Name() string {
	if !m.Valid() {
		return fmt.Sprintf("metric(%d)", uint8(m))
	}

	return metricNames[m]
}

func (m Metric) String() string {
	return m.Name()
}

// ID returns the xxHash64 of the metric name. IDs are stable across releases
// and are what the series blob stores on disk.
func (m Metric) ID() uint64 {
	if !m.Valid() {
		return 0
	}

	return metricIDs[m]
}

// ParseMetric returns the metric with the given snake_case name.
func ParseMetric(name string) (Metric, error) {
	m, ok := metricByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", name)
	}

	return m, nil
}

// MetricByID returns the metric whose ID is id.
func MetricByID(id uint64) (Metric, bool) {
	m, ok := metricByID[id]

	return m, ok
}
