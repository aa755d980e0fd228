// Package pipeline drives frame alignment for one video.
//
// Run plans the frame window covered by the telemetry, then walks it in
// order: each frame time is aligned and handed to a Sink together with its
// index and offset from the video start. The loop is single-threaded and
// checks the context between frames; any error stops the run.
package pipeline
