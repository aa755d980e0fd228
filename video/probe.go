package video

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/arloliu/fitlay/errs"
)

// Metadata describes the first video stream of a media file.
type Metadata struct {
	Codec        string
	Width        int
	Height       int
	FrameRate    float64
	RawFrameRate string // as reported, e.g. "30000/1001"
	Frames       int    // 0 when the container does not report it
	Duration     time.Duration
	CreationTime time.Time
}

// FrameDuration returns the duration of one frame.
func (m Metadata) FrameDuration() time.Duration {
	if m.FrameRate <= 0 {
		return 0
	}

	return time.Duration(float64(time.Second) / m.FrameRate)
}

// EstimatedFrames returns Frames, or duration times rate when the container
// omits the count.
func (m Metadata) EstimatedFrames() int {
	if m.Frames > 0 {
		return m.Frames
	}

	return int(math.Round(m.Duration.Seconds() * m.FrameRate))
}

// Prober runs ffprobe.
type Prober struct {
	Binary string
	Runner Runner
}

// NewProber returns a prober for the ffprobe binary on PATH.
func NewProber() *Prober {
	return &Prober{Binary: "ffprobe", Runner: ExecRunner{}}
}

// Probe reads the metadata of the media file at path.
func (p *Prober) Probe(ctx context.Context, path string) (Metadata, error) {
	out, err := p.Runner.Run(ctx, p.Binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	if err != nil {
		return Metadata{}, err
	}

	md, err := ParseProbe(out)
	if err != nil {
		return Metadata{}, fmt.Errorf("%s: %w", path, err)
	}

	return md, nil
}

// Probe reads the metadata of path with the default prober.
func Probe(ctx context.Context, path string) (Metadata, error) {
	return NewProber().Probe(ctx, path)
}

// ParseProbe extracts Metadata from ffprobe JSON output.
//
// The frame rate comes from avg_frame_rate, falling back to r_frame_rate.
// The creation time comes from the stream tags, falling back to the
// container tags.
func ParseProbe(data []byte) (Metadata, error) {
	if !gjson.ValidBytes(data) {
		return Metadata{}, fmt.Errorf("invalid ffprobe output")
	}

	stream := gjson.GetBytes(data, `streams.#(codec_type=="video")`)
	if !stream.Exists() {
		return Metadata{}, errs.ErrNoVideoStream
	}

	md := Metadata{
		Codec:  stream.Get("codec_name").String(),
		Width:  int(stream.Get("width").Int()),
		Height: int(stream.Get("height").Int()),
		Frames: int(stream.Get("nb_frames").Int()),
	}

	for _, key := range []string{"avg_frame_rate", "r_frame_rate"} {
		raw := stream.Get(key).String()
		if rate, ok := ParseRate(raw); ok {
			md.FrameRate = rate
			md.RawFrameRate = raw

			break
		}
	}
	if md.FrameRate == 0 {
		return Metadata{}, errs.ErrNoFrameRate
	}

	duration := stream.Get("duration")
	if !duration.Exists() {
		duration = gjson.GetBytes(data, "format.duration")
	}
	md.Duration = time.Duration(math.Round(duration.Float() * float64(time.Second)))

	created := stream.Get("tags.creation_time").String()
	if created == "" {
		created = gjson.GetBytes(data, "format.tags.creation_time").String()
	}
	if created == "" {
		return Metadata{}, errs.ErrNoCreationTime
	}

	ct, err := ParseCreationTime(created)
	if err != nil {
		return Metadata{}, err
	}
	md.CreationTime = ct

	return md, nil
}

// ParseRate parses an ffprobe rational ("30000/1001") or decimal rate. Zero,
// negative and malformed rates are rejected.
func ParseRate(s string) (float64, bool) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	d := 1.0
	if found {
		d, err = strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
	}

	rate := n / d
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return 0, false
	}

	return rate, true
}

var creationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseCreationTime parses the creation_time tag. Values without a zone are
// taken as UTC, which is how cameras write them.
func ParseCreationTime(s string) (time.Time, error) {
	for _, layout := range creationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparsable creation_time %q", errs.ErrNoCreationTime, s)
}
