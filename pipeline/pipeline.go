package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/frame"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/telemetry"
)

// Frame is one aligned video frame.
type Frame struct {
	Index  int
	Time   time.Time
	Offset time.Duration // from the video start
	Sample align.AlignedSample
}

// Sink consumes aligned frames in increasing index order.
type Sink interface {
	WriteFrame(f Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Frame) error

func (fn SinkFunc) WriteFrame(f Frame) error {
	return fn(f)
}

// Stats summarizes a run.
type Stats struct {
	Frames    int           // frames written to the sink
	Skipped   int           // leading frames before the telemetry
	Trailing  int           // frames after the window, -1 when unknown
	Advances  int           // interval advances made by the aligner
	LastIndex int           // last frame index written, -1 when none
	Elapsed   time.Duration // wall time of the run
}

// Pipeline aligns the frames of clock against series.
type Pipeline struct {
	series *telemetry.Series
	clock  *frame.Clock
	sink   Sink
	cfg    *config
}

// New returns a pipeline writing to sink.
func New(series *telemetry.Series, clock *frame.Clock, sink Sink, opts ...Option) (*Pipeline, error) {
	if series == nil || clock == nil || sink == nil {
		return nil, errors.New("pipeline needs a series, a clock and a sink")
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Pipeline{series: series, clock: clock, sink: sink, cfg: cfg}, nil
}

// Plan returns the frame window Run will process.
func (p *Pipeline) Plan() (frame.Window, error) {
	window, err := frame.Plan(p.clock, p.series, p.cfg.tail)
	if err != nil {
		return frame.Window{}, err
	}
	if p.cfg.maxFrames > 0 && window.Len() > p.cfg.maxFrames {
		window.Last = window.First + p.cfg.maxFrames - 1
	}

	return window, nil
}

// Run aligns every frame of the planned window and writes it to the sink.
//
// Stats are returned even on error and describe the frames written so far.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	started := time.Now()
	stats := Stats{LastIndex: -1, Trailing: -1}
	log := p.cfg.logger

	window, err := p.Plan()
	if err != nil {
		return stats, err
	}
	stats.Skipped = window.Skipped
	stats.Trailing = window.Trailing

	// the epoch is the first aligned frame, not the video start, so skipped
	// leading frames do not count as time spent in the first interval
	aligner, err := align.New(p.series, p.clock.At(window.First), p.cfg.alignOpts...)
	if err != nil {
		return stats, err
	}

	log.Info("pipeline: starting",
		"first_frame", window.First,
		"last_frame", window.Last,
		"skipped", window.Skipped,
		"tail", p.cfg.tail,
		"fps", p.clock.Rate(),
	)

	for i := window.First; i <= window.Last; i++ {
		if err := ctx.Err(); err != nil {
			stats.Advances = aligner.Advances()
			stats.Elapsed = time.Since(started)
			log.Warn("pipeline: cancelled", "frame", i, "written", stats.Frames)

			return stats, fmt.Errorf("frame %d: %w", i, err)
		}

		t := p.clock.At(i)
		sample, err := aligner.Align(t)
		if err != nil {
			stats.Advances = aligner.Advances()
			return stats, fmt.Errorf("align frame %d: %w", i, err)
		}

		if err := p.sink.WriteFrame(Frame{Index: i, Time: t, Offset: p.clock.Offset(i), Sample: sample}); err != nil {
			stats.Advances = aligner.Advances()
			return stats, fmt.Errorf("write frame %d: %w", i, err)
		}

		stats.Frames++
		stats.LastIndex = i

		if every := p.cfg.progressEvery; every > 0 && stats.Frames%every == 0 {
			log.Debug("pipeline: progress",
				"frame", i,
				"written", stats.Frames,
				"interval", sample.Index,
				"fraction", sample.Fraction,
			)
		}
	}

	stats.Advances = aligner.Advances()
	stats.Elapsed = time.Since(started)
	log.Info("pipeline: finished",
		"frames", stats.Frames,
		"advances", stats.Advances,
		"elapsed", stats.Elapsed,
	)

	return stats, nil
}
