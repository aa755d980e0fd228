package render

import (
	"fmt"
	"time"
)

// FormatTimecode formats d as an ASS timestamp, H:MM:SS.cc. Negative
// durations are formatted as zero.
func FormatTimecode(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := (d + 5*time.Millisecond) / (10 * time.Millisecond)

	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60

	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs%100)
}
