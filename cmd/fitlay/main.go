// Command fitlay burns cycling telemetry from a FIT activity file into a
// video as a text overlay.
//
//	fitlay --fit ride.fit --video clip.mp4 --output clip_overlay.mp4
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/arloliu/fitlay/internal/app"
	"github.com/arloliu/fitlay/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "fitlay: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "fitlay: %v\n", err)
		return 2
	}

	a, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		logger.Error("fitlay: configuration", "error", err)
		return 2
	}

	res, err := a.Run(ctx)
	if err != nil {
		logger.Error("fitlay: run failed", "error", err, "frames_written", res.Stats.Frames)
		return 1
	}

	logger.Info("fitlay: done",
		"frames", res.Stats.Frames,
		"events", res.Events,
		"subtitles", res.Subtitles,
		"output", res.Output,
	)

	return 0
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    cfg.Log.NoColor,
	})

	return slog.New(handler).With("run_id", uuid.NewString()), nil
}
