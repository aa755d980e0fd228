// Package config loads fitlay settings from defaults, an optional YAML file,
// FITLAY_ environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arloliu/fitlay/align"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/frame"
	"github.com/arloliu/fitlay/telemetry"
)

const envPrefix = "FITLAY"

// Config holds the settings of one run.
type Config struct {
	FitFile   string `mapstructure:"fit"`
	Video     string `mapstructure:"video"`
	Subtitles string `mapstructure:"subtitles"`
	Output    string `mapstructure:"output"`
	Burn      bool   `mapstructure:"burn"`
	Overwrite bool   `mapstructure:"overwrite"`
	Codec     string `mapstructure:"codec"`
	Font      string `mapstructure:"font"`
	// FontSize in video pixels; zero scales with the video height.
	FontSize int `mapstructure:"font_size"`

	// FrameRate overrides the probed rate when positive.
	FrameRate float64 `mapstructure:"frame_rate"`
	// ClockOffset is added to the video creation time to correct camera
	// clock drift.
	ClockOffset time.Duration `mapstructure:"clock_offset"`
	MaxFrames   int           `mapstructure:"max_frames"`

	Tail           string   `mapstructure:"tail"`
	FractionOrigin string   `mapstructure:"fraction_origin"`
	Stepped        []string `mapstructure:"stepped"`
	Interpolated   []string `mapstructure:"interpolated"`

	FFprobe string `mapstructure:"ffprobe"`
	FFmpeg  string `mapstructure:"ffmpeg"`

	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
}

// CacheConfig configures the telemetry cache.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Dir         string        `mapstructure:"dir"`
	TTL         time.Duration `mapstructure:"ttl"`
	Compression string        `mapstructure:"compression"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	NoColor bool   `mapstructure:"no_color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("codec", "libx264")
	v.SetDefault("burn", true)
	v.SetDefault("font", "DejaVu Sans")
	v.SetDefault("tail", "stop")
	v.SetDefault("fraction_origin", "sample")
	v.SetDefault("ffprobe", "ffprobe")
	v.SetDefault("ffmpeg", "ffmpeg")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", "720h")
	v.SetDefault("cache.compression", "zstd")
	v.SetDefault("log.level", "info")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "fitlay")
}

func newFlagSet(output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("fitlay", pflag.ContinueOnError)
	fs.SetOutput(output)

	fs.String("config", "", "config file (default: ./fitlay.yaml or $HOME/.config/fitlay/fitlay.yaml)")
	fs.StringP("fit", "f", "", "FIT activity file")
	fs.StringP("video", "i", "", "input video")
	fs.StringP("output", "o", "", "output video")
	fs.String("subtitles", "", "ASS subtitle path (default: <output>.ass)")
	fs.Bool("burn", true, "run ffmpeg to burn the overlay into the output video")
	fs.BoolP("overwrite", "y", false, "overwrite an existing output video")
	fs.String("codec", "libx264", "ffmpeg video codec")
	fs.String("font", "DejaVu Sans", "overlay font")
	fs.Int("font-size", 0, "overlay font size in pixels (0 = scale with video height)")
	fs.Float64("frame-rate", 0, "override the probed frame rate")
	fs.Duration("clock-offset", 0, "shift applied to the video creation time")
	fs.Int("max-frames", 0, "render at most this many frames (0 = all)")
	fs.String("tail", "stop", "frames after the last sample: stop or clamp")
	fs.String("fraction-origin", "sample", "interpolation origin: sample or advance")
	fs.StringSlice("stepped", nil, "metrics held at the current sample")
	fs.StringSlice("interpolated", nil, "metrics interpolated between samples")
	fs.String("ffprobe", "ffprobe", "ffprobe binary")
	fs.String("ffmpeg", "ffmpeg", "ffmpeg binary")
	fs.Bool("cache", true, "cache decoded telemetry")
	fs.String("cache-dir", "", "telemetry cache directory")
	fs.Duration("cache-ttl", 30*24*time.Hour, "telemetry cache entry lifetime")
	fs.String("cache-compression", "zstd", "cache blob compression: none, zstd, s2 or lz4")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Bool("no-color", false, "disable colored log output")

	return fs
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"frame-rate":        "frame_rate",
	"clock-offset":      "clock_offset",
	"max-frames":        "max_frames",
	"font-size":         "font_size",
	"fraction-origin":   "fraction_origin",
	"cache":             "cache.enabled",
	"cache-dir":         "cache.dir",
	"cache-ttl":         "cache.ttl",
	"cache-compression": "cache.compression",
	"log-level":         "log.level",
	"no-color":          "log.no_color",
}

// Load parses args and merges every configuration source. It returns
// pflag.ErrHelp when help was requested.
func Load(args []string, output io.Writer) (*Config, error) {
	fs := newFlagSet(output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := f.Name
		if k, ok := flagKeys[f.Name]; ok {
			key = k
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errors.Join(bindErr, err)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, fs.Lookup("config").Value.String()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Subtitles == "" && cfg.Output != "" {
		cfg.Subtitles = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output)) + ".ass"
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}

		return nil
	}

	v.SetConfigName("fitlay")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "fitlay"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Validate checks that the run is fully specified.
func (c *Config) Validate() error {
	var errs []error

	if c.FitFile == "" {
		errs = append(errs, errors.New("a FIT file is required (--fit)"))
	}
	if c.Video == "" {
		errs = append(errs, errors.New("an input video is required (--video)"))
	}
	if c.Burn && c.Output == "" {
		errs = append(errs, errors.New("an output video is required when burning (--output)"))
	}
	if !c.Burn && c.Subtitles == "" {
		errs = append(errs, errors.New("a subtitle path is required when not burning (--subtitles)"))
	}
	if c.FrameRate < 0 {
		errs = append(errs, errors.New("frame rate must not be negative"))
	}
	if c.Font == "" {
		errs = append(errs, errors.New("font must not be empty"))
	}
	if c.FontSize < 0 {
		errs = append(errs, errors.New("font size must not be negative"))
	}
	if c.MaxFrames < 0 {
		errs = append(errs, errors.New("max frames must not be negative"))
	}
	if _, err := c.TailPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.AlignOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.CacheCompression(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache directory is required when the cache is enabled"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// TailPolicy returns the parsed tail policy.
func (c *Config) TailPolicy() (frame.TailPolicy, error) {
	return frame.ParseTailPolicy(c.Tail)
}

// CacheCompression returns the parsed cache compression.
func (c *Config) CacheCompression() (format.CompressionType, error) {
	return format.ParseCompressionType(c.Cache.Compression)
}

// AlignOptions translates the interpolation settings into aligner options.
func (c *Config) AlignOptions() ([]align.Option, error) {
	origin, err := align.ParseOrigin(c.FractionOrigin)
	if err != nil {
		return nil, err
	}
	opts := []align.Option{align.WithFractionOrigin(origin)}

	stepped, err := parseMetrics(c.Stepped)
	if err != nil {
		return nil, err
	}
	interpolated, err := parseMetrics(c.Interpolated)
	if err != nil {
		return nil, err
	}
	for _, m := range stepped {
		for _, o := range interpolated {
			if m == o {
				return nil, fmt.Errorf("metric %s is both stepped and interpolated", m)
			}
		}
	}

	if len(stepped) > 0 {
		opts = append(opts, align.WithStepped(stepped...))
	}
	if len(interpolated) > 0 {
		opts = append(opts, align.WithInterpolated(interpolated...))
	}

	return opts, nil
}

func parseMetrics(names []string) ([]telemetry.Metric, error) {
	out := make([]telemetry.Metric, 0, len(names))
	for _, name := range names {
		m, err := telemetry.ParseMetric(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return level, nil
}
