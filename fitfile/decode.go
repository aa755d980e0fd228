// Package fitfile reads activity telemetry from Garmin FIT files.
//
// Only record messages are used. Every record becomes one telemetry.Record;
// fields holding the FIT invalid sentinel for their type are left absent.
package fitfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/hash"
	"github.com/arloliu/fitlay/telemetry"
)

// FIT invalid sentinels per base type.
const (
	invalidUint8  = 0xFF
	invalidUint16 = 0xFFFF
	invalidUint32 = 0xFFFFFFFF
	invalidSint8  = 0x7F
)

// fitEpoch is the FIT time origin; timestamps at or before it are unset.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// Decode reads a FIT activity from r and returns its records in file order.
func Decode(r io.Reader) ([]telemetry.Record, error) {
	file, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode fit: %w", err)
	}

	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrNotActivity, err)
	}
	if len(activity.Records) == 0 {
		return nil, errs.ErrNoRecords
	}

	records := make([]telemetry.Record, 0, len(activity.Records))
	for _, msg := range activity.Records {
		if msg == nil {
			continue
		}
		records = append(records, FromRecordMsg(msg))
	}

	return records, nil
}

// DecodeFile decodes the FIT file at path and also returns the xxHash64
// fingerprint of its contents.
func DecodeFile(path string) ([]telemetry.Record, uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	records, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	return records, hash.Fingerprint(data), nil
}

// Fingerprint returns the xxHash64 of the file at path without decoding it.
func Fingerprint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return hash.Fingerprint(data), nil
}

// FromRecordMsg maps one FIT record message.
//
// Speed prefers enhanced_speed over speed and altitude prefers
// enhanced_altitude. Speed and distance are reported as 0 when the device
// did not record them.
func FromRecordMsg(msg *fit.RecordMsg) telemetry.Record {
	rec := telemetry.Record{Values: make(map[telemetry.Metric]float64, telemetry.NumMetrics)}
	if !msg.Timestamp.IsZero() && msg.Timestamp.After(fitEpoch) {
		rec.Timestamp = msg.Timestamp
	}

	set := func(m telemetry.Metric, v float64) {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			rec.Values[m] = v
		}
	}

	if msg.Power != invalidUint16 {
		set(telemetry.Power, float64(msg.Power))
	}
	if msg.HeartRate != invalidUint8 {
		set(telemetry.HeartRate, float64(msg.HeartRate))
	}
	if msg.Cadence != invalidUint8 {
		set(telemetry.Cadence, float64(msg.Cadence))
	}
	if msg.Temperature != invalidSint8 {
		set(telemetry.Temperature, float64(msg.Temperature))
	}
	if msg.AccumulatedPower != invalidUint32 {
		set(telemetry.AccumulatedPower, float64(msg.AccumulatedPower))
	}
	set(telemetry.FractionalCadence, msg.GetFractionalCadenceScaled())

	speed := msg.GetEnhancedSpeedScaled()
	if math.IsNaN(speed) {
		speed = msg.GetSpeedScaled()
	}
	if math.IsNaN(speed) {
		speed = 0
	}
	set(telemetry.Speed, speed)

	distance := msg.GetDistanceScaled()
	if math.IsNaN(distance) {
		distance = 0
	}
	set(telemetry.Distance, distance)

	altitude := msg.GetEnhancedAltitudeScaled()
	if math.IsNaN(altitude) {
		altitude = msg.GetAltitudeScaled()
	}
	set(telemetry.Altitude, altitude)

	if !msg.PositionLat.Invalid() && !msg.PositionLong.Invalid() {
		set(telemetry.Latitude, msg.PositionLat.Degrees())
		set(telemetry.Longitude, msg.PositionLong.Degrees())
	}

	return rec
}
