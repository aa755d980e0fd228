package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/pipeline"
)

const styleName = "Telemetry"

type writerConfig struct {
	width, height int
	fontName      string
	fontSize      int
	margin        int
	frameDuration time.Duration
	lines         LineFunc
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithPlayRes sets the script resolution, normally the video size.
func WithPlayRes(width, height int) WriterOption {
	return options.New(func(c *writerConfig) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("invalid play resolution %dx%d", width, height)
		}
		c.width, c.height = width, height

		return nil
	})
}

// WithFont sets the font name and size in script pixels.
func WithFont(name string, size int) WriterOption {
	return options.New(func(c *writerConfig) error {
		if name == "" || size <= 0 {
			return errors.New("font needs a name and a positive size")
		}
		c.fontName, c.fontSize = name, size

		return nil
	})
}

// WithFrameDuration sets how long each frame's text is shown. It must match
// the video frame rate.
func WithFrameDuration(d time.Duration) WriterOption {
	return options.New(func(c *writerConfig) error {
		if d <= 0 {
			return errors.New("frame duration must be positive")
		}
		c.frameDuration = d

		return nil
	})
}

// WithLines replaces the line renderer.
func WithLines(fn LineFunc) WriterOption {
	return options.NoError(func(c *writerConfig) {
		if fn != nil {
			c.lines = fn
		}
	})
}

// Writer writes an ASS subtitle script with one event per run of frames that
// show the same text. It implements pipeline.Sink and is not safe for
// concurrent use.
type Writer struct {
	w   *bufio.Writer
	cfg writerConfig

	headerDone bool
	pending    bool
	text       string
	start      time.Duration
	end        time.Duration
	events     int
	closed     bool
}

var _ pipeline.Sink = (*Writer)(nil)

// NewWriter returns a Writer emitting to w. Close must be called to flush
// the last event.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{
		width:         1920,
		height:        1080,
		fontName:      "DejaVu Sans",
		frameDuration: time.Second / 30,
		lines:         Lines,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.fontSize == 0 {
		cfg.fontSize = max(cfg.height/24, 8)
	}
	cfg.margin = max(cfg.height/40, 4)

	return &Writer{w: bufio.NewWriter(w), cfg: cfg}, nil
}

// WriteFrame adds the text of f. Frames must arrive in increasing order.
func (w *Writer) WriteFrame(f pipeline.Frame) error {
	if w.closed {
		return errors.New("ass writer is closed")
	}
	if err := w.writeHeader(); err != nil {
		return err
	}

	text := dialogueText(w.cfg.lines(f.Sample))
	start := f.Offset
	end := f.Offset + w.cfg.frameDuration

	if w.pending && text == w.text && start <= w.end+w.cfg.frameDuration/2 {
		w.end = end
		return nil
	}
	// a run shorter than one timecode tick cannot be shown on its own, so the
	// next text takes over its span instead of leaving a gap
	if w.pending && FormatTimecode(w.start) == FormatTimecode(w.end) {
		w.text, w.end = text, end
		return nil
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.pending, w.text, w.start, w.end = true, text, start, end

	return nil
}

// Events returns the number of dialogue events written so far.
func (w *Writer) Events() int {
	return w.events
}

// Close writes the pending event and flushes the underlying writer. It does
// not close the destination.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}

	return w.w.Flush()
}

func (w *Writer) writeHeader() error {
	if w.headerDone {
		return nil
	}
	w.headerDone = true

	c := w.cfg
	_, err := fmt.Fprintf(w.w, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
WrapStyle: 2
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: %s,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,2,0,1,%d,%d,%d,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`, c.width, c.height, styleName, c.fontName, c.fontSize, c.margin, c.margin, c.margin)

	return err
}

func (w *Writer) flush() error {
	if !w.pending {
		return nil
	}
	w.pending = false

	// only the last event can still be shorter than a tick here
	start, end := FormatTimecode(w.start), FormatTimecode(w.end)
	if start == end {
		end = FormatTimecode(w.start + 10*time.Millisecond)
	}

	_, err := fmt.Fprintf(w.w, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n", start, end, styleName, w.text)
	if err == nil {
		w.events++
	}

	return err
}

// dialogueText joins bottom-first lines into ASS text, top line first.
func dialogueText(lines []string) string {
	var b strings.Builder
	for i := len(lines) - 1; i >= 0; i-- {
		b.WriteString(escapeText(lines[i]))
		if i > 0 {
			b.WriteString(`\N`)
		}
	}

	return b.String()
}

func escapeText(s string) string {
	r := strings.NewReplacer("\n", " ", "{", "(", "}", ")", `\`, "/")

	return r.Replace(s)
}
