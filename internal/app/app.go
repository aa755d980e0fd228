// Package app wires the fitlay packages into one overlay run: load the
// telemetry, probe the video, align every frame, write the subtitle script
// and burn it into the output video.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/fitlay/cache"
	"github.com/arloliu/fitlay/fitfile"
	"github.com/arloliu/fitlay/frame"
	"github.com/arloliu/fitlay/internal/config"
	"github.com/arloliu/fitlay/internal/hash"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/pipeline"
	"github.com/arloliu/fitlay/render"
	"github.com/arloliu/fitlay/telemetry"
	"github.com/arloliu/fitlay/video"
)

// DecodeFunc reads a FIT file and returns its records and fingerprint.
type DecodeFunc func(path string) ([]telemetry.Record, uint64, error)

type settings struct {
	logger      *slog.Logger
	runner      video.Runner
	decode      DecodeFunc
	fingerprint func(path string) (uint64, error)
}

// Option configures an App.
type Option = options.Option[*settings]

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithRunner replaces the command runner used for ffprobe and ffmpeg.
func WithRunner(r video.Runner) Option {
	return options.New(func(s *settings) error {
		if r == nil {
			return errors.New("runner must not be nil")
		}
		s.runner = r

		return nil
	})
}

// WithDecoder replaces the FIT decoder. The fingerprint used for cache
// lookups is derived from the decoder on a miss.
func WithDecoder(fn DecodeFunc, fingerprint func(path string) (uint64, error)) Option {
	return options.New(func(s *settings) error {
		if fn == nil || fingerprint == nil {
			return errors.New("decoder and fingerprint must not be nil")
		}
		s.decode, s.fingerprint = fn, fingerprint

		return nil
	})
}

// Result describes a finished run.
type Result struct {
	Samples   int
	CacheHit  bool
	Video     video.Metadata
	Stats     pipeline.Stats
	Events    int
	Subtitles string
	Output    string // empty when the video was not burned
}

// App runs one overlay job.
type App struct {
	cfg *config.Config
	set settings
}

// New returns an App for a validated configuration.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	set := settings{
		logger:      slog.Default(),
		runner:      video.ExecRunner{},
		decode:      fitfile.DecodeFile,
		fingerprint: fitfile.Fingerprint,
	}
	if err := options.Apply(&set, opts...); err != nil {
		return nil, err
	}

	return &App{cfg: cfg, set: set}, nil
}

// Run executes the job.
func (a *App) Run(ctx context.Context) (Result, error) {
	var res Result
	log := a.set.logger

	series, hit, err := a.loadSeries()
	if err != nil {
		return res, err
	}
	res.Samples, res.CacheHit = series.Len(), hit
	log.Info("app: telemetry loaded",
		"file", a.cfg.FitFile,
		"samples", series.Len(),
		"start", series.Start(),
		"duration", series.Duration(),
		"cached", hit,
	)

	md, err := a.probe(ctx)
	if err != nil {
		return res, err
	}
	res.Video = md

	clock, err := frame.NewClock(md.CreationTime.Add(a.cfg.ClockOffset), md.FrameRate, md.EstimatedFrames())
	if err != nil {
		return res, err
	}
	log.Info("app: video probed",
		"file", a.cfg.Video,
		"codec", md.Codec,
		"size", fmt.Sprintf("%dx%d", md.Width, md.Height),
		"fps", md.FrameRate,
		"frames", clock.Count(),
		"start", clock.Start(),
	)

	stats, events, err := a.writeSubtitles(ctx, series, clock, md)
	res.Stats, res.Events, res.Subtitles = stats, events, a.cfg.Subtitles
	if err != nil {
		return res, err
	}

	if !a.cfg.Burn {
		return res, nil
	}

	burner := &video.Burner{Binary: a.cfg.FFmpeg, Runner: a.set.runner}
	started := time.Now()
	err = burner.Burn(ctx, video.BurnOptions{
		Input:     a.cfg.Video,
		Subtitles: a.cfg.Subtitles,
		Output:    a.cfg.Output,
		Codec:     a.cfg.Codec,
		Overwrite: a.cfg.Overwrite,
	})
	if err != nil {
		return res, err
	}
	res.Output = a.cfg.Output
	log.Info("app: overlay burned", "output", a.cfg.Output, "elapsed", time.Since(started))

	return res, nil
}

// loadSeries returns the telemetry of the FIT file, from the cache when it
// holds an entry for the file's fingerprint.
func (a *App) loadSeries() (*telemetry.Series, bool, error) {
	if !a.cfg.Cache.Enabled {
		series, _, err := a.decode()
		return series, false, err
	}

	comp, err := a.cfg.CacheCompression()
	if err != nil {
		return nil, false, err
	}
	c, err := cache.Open(a.cfg.Cache.Dir,
		cache.WithTTL(a.cfg.Cache.TTL),
		cache.WithCompression(comp),
		cache.WithLogger(a.set.logger),
	)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			a.set.logger.Warn("app: closing cache", "error", cerr)
		}
	}()

	fp, err := a.set.fingerprint(a.cfg.FitFile)
	if err != nil {
		return nil, false, err
	}
	series, ok, err := c.Get(fp)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return series, true, nil
	}

	series, fp, err = a.decode()
	if err != nil {
		return nil, false, err
	}
	if err := c.Put(fp, series); err != nil {
		a.set.logger.Warn("app: caching telemetry", "fingerprint", hash.Hex(fp), "error", err)
	}

	return series, false, nil
}

func (a *App) decode() (*telemetry.Series, uint64, error) {
	records, fp, err := a.set.decode(a.cfg.FitFile)
	if err != nil {
		return nil, 0, err
	}
	series, err := telemetry.Build(records)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", a.cfg.FitFile, err)
	}

	return series, fp, nil
}

func (a *App) probe(ctx context.Context) (video.Metadata, error) {
	prober := &video.Prober{Binary: a.cfg.FFprobe, Runner: a.set.runner}
	md, err := prober.Probe(ctx, a.cfg.Video)
	if err != nil {
		return md, err
	}
	if a.cfg.FrameRate > 0 {
		md.FrameRate = a.cfg.FrameRate
		md.RawFrameRate = ""
	}

	return md, nil
}

func (a *App) writeSubtitles(ctx context.Context, series *telemetry.Series, clock *frame.Clock, md video.Metadata) (pipeline.Stats, int, error) {
	var stats pipeline.Stats

	alignOpts, err := a.cfg.AlignOptions()
	if err != nil {
		return stats, 0, err
	}
	tail, err := a.cfg.TailPolicy()
	if err != nil {
		return stats, 0, err
	}

	writerOpts := []render.WriterOption{render.WithFrameDuration(clock.FrameDuration())}
	height := 1080
	if md.Width > 0 && md.Height > 0 {
		writerOpts = append(writerOpts, render.WithPlayRes(md.Width, md.Height))
		height = md.Height
	}
	size := a.cfg.FontSize
	if size == 0 {
		size = max(height/24, 8)
	}
	writerOpts = append(writerOpts, render.WithFont(a.cfg.Font, size))

	if dir := filepath.Dir(a.cfg.Subtitles); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, 0, err
		}
	}
	f, err := os.Create(a.cfg.Subtitles)
	if err != nil {
		return stats, 0, err
	}
	defer f.Close()

	w, err := render.NewWriter(f, writerOpts...)
	if err != nil {
		return stats, 0, err
	}

	p, err := pipeline.New(series, clock, w,
		pipeline.WithLogger(a.set.logger),
		pipeline.WithTailPolicy(tail),
		pipeline.WithAlignOptions(alignOpts...),
		pipeline.WithMaxFrames(a.cfg.MaxFrames),
	)
	if err != nil {
		return stats, 0, err
	}

	stats, err = p.Run(ctx)
	if err != nil {
		return stats, w.Events(), err
	}
	if err := w.Close(); err != nil {
		return stats, w.Events(), fmt.Errorf("write %s: %w", a.cfg.Subtitles, err)
	}
	if err := f.Close(); err != nil {
		return stats, w.Events(), err
	}
	a.set.logger.Info("app: subtitles written", "path", a.cfg.Subtitles, "events", w.Events())

	return stats, w.Events(), nil
}
