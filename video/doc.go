// Package video wraps the ffprobe and ffmpeg command line tools.
//
// Probe reads the metadata needed to build a frame clock: frame rate, frame
// count, dimensions and the recording's creation time. Burn draws a rendered
// subtitle track onto the video. Both shell out through a Runner so tests can
// replace the binaries.
package video
