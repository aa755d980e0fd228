// Package render turns aligned telemetry into on-screen text.
//
// Lines produces the overlay text of one frame. Writer collects the lines of
// every frame into an Advanced SubStation Alpha (ASS) script that ffmpeg can
// burn into the video.
package render

import (
	"fmt"
	"math"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/telemetry"
)

// metersPerSecondToKmh converts m/s to km/h.
const metersPerSecondToKmh = 3.6

// LineFunc renders the overlay lines of one aligned sample, bottom line first.
type LineFunc func(s align.AlignedSample) []string

// Lines renders power, heart rate and speed, bottom line first. Absent
// metrics are shown as zero.
func Lines(s align.AlignedSample) []string {
	power := s.Value(telemetry.Power).Or(0)
	hr := s.Value(telemetry.HeartRate).Or(0)
	speed := s.Value(telemetry.Speed).Or(0)

	return []string{
		fmt.Sprintf("Power: %.2f watts", power),
		fmt.Sprintf("Heart Rate: %d bpm", int(math.Round(hr))),
		fmt.Sprintf("Speed: %.2f km/h", speed*metersPerSecondToKmh),
	}
}
