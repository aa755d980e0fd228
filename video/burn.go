package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BurnOptions describes one ffmpeg burn-in run.
type BurnOptions struct {
	Input     string // source video
	Subtitles string // ASS subtitle script
	Output    string
	Codec     string // video codec, libx264 when empty
	Overwrite bool
}

// Burner runs ffmpeg.
type Burner struct {
	Binary string
	Runner Runner
}

// NewBurner returns a burner for the ffmpeg binary on PATH.
func NewBurner() *Burner {
	return &Burner{Binary: "ffmpeg", Runner: ExecRunner{}}
}

// Args returns the ffmpeg arguments for opts.
func (b *Burner) Args(opts BurnOptions) []string {
	codec := opts.Codec
	if codec == "" {
		codec = "libx264"
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	if opts.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	return append(args,
		"-i", opts.Input,
		"-vf", "ass="+escapeFilterPath(opts.Subtitles),
		"-c:v", codec,
		"-c:a", "copy",
		opts.Output,
	)
}

// Burn draws opts.Subtitles onto opts.Input and writes opts.Output.
func (b *Burner) Burn(ctx context.Context, opts BurnOptions) error {
	if opts.Input == "" || opts.Subtitles == "" || opts.Output == "" {
		return errors.New("burn needs input, subtitles and output paths")
	}

	if _, err := b.Runner.Run(ctx, b.Binary, b.Args(opts)...); err != nil {
		return fmt.Errorf("burn %s: %w", opts.Output, err)
	}

	return nil
}

// Burn runs the default burner.
func Burn(ctx context.Context, opts BurnOptions) error {
	return NewBurner().Burn(ctx, opts)
}

// escapeFilterPath quotes characters special to the ffmpeg filter graph.
func escapeFilterPath(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`, `,`, `\,`)

	return r.Replace(p)
}
