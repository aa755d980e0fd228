package pipeline

import (
	"errors"
	"log/slog"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/frame"
	"github.com/arloliu/fitlay/internal/options"
)

type config struct {
	logger        *slog.Logger
	tail          frame.TailPolicy
	alignOpts     []align.Option
	progressEvery int
	maxFrames     int
}

func defaultConfig() *config {
	return &config{
		logger:        slog.Default(),
		tail:          frame.TailStop,
		progressEvery: 1000,
	}
}

// Option configures a Pipeline.
type Option = options.Option[*config]

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithTailPolicy sets how frames past the last sample are handled.
func WithTailPolicy(tail frame.TailPolicy) Option {
	return options.New(func(c *config) error {
		if tail != frame.TailStop && tail != frame.TailClamp {
			return errors.New("invalid tail policy")
		}
		c.tail = tail

		return nil
	})
}

// WithAlignOptions passes options to the aligner. Repeated calls accumulate.
func WithAlignOptions(opts ...align.Option) Option {
	return options.NoError(func(c *config) {
		if len(opts) > 0 {
			c.alignOpts = append(c.alignOpts, options.Join(opts...))
		}
	})
}

// WithProgressEvery logs progress every n frames at debug level. Zero
// disables progress logs.
func WithProgressEvery(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return errors.New("progress interval must not be negative")
		}
		c.progressEvery = n

		return nil
	})
}

// WithMaxFrames limits the run to the first n frames of the window, for
// previews. Zero means no limit.
func WithMaxFrames(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return errors.New("max frames must not be negative")
		}
		c.maxFrames = n

		return nil
	})
}
