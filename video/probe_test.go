package video

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/errs"
)

const goproProbe = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac"},
    {
      "index": 1,
      "codec_type": "video",
      "codec_name": "h264",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30000/1001",
      "avg_frame_rate": "30000/1001",
      "nb_frames": "1800",
      "duration": "60.060000",
      "tags": {"creation_time": "2024-05-01T07:30:05.000000Z"}
    }
  ],
  "format": {"duration": "60.100000", "tags": {"creation_time": "2024-05-01T07:29:00.000000Z"}}
}`

func TestParseProbe(t *testing.T) {
	md, err := ParseProbe([]byte(goproProbe))
	require.NoError(t, err)

	require.Equal(t, "h264", md.Codec)
	require.Equal(t, 1920, md.Width)
	require.Equal(t, 1080, md.Height)
	require.InDelta(t, 29.97002997, md.FrameRate, 1e-8)
	require.Equal(t, "30000/1001", md.RawFrameRate)
	require.Equal(t, 1800, md.Frames)
	require.Equal(t, 60060*time.Millisecond, md.Duration)
	require.Equal(t, time.Date(2024, 5, 1, 7, 30, 5, 0, time.UTC), md.CreationTime)
	require.Equal(t, 1800, md.EstimatedFrames())
	require.Equal(t, 33366666*time.Nanosecond, md.FrameDuration())
}

func TestParseProbeFallbacks(t *testing.T) {
	data := `{
	  "streams": [{"codec_type": "video", "avg_frame_rate": "0/0", "r_frame_rate": "25/1"}],
	  "format": {"duration": "10.0", "tags": {"creation_time": "2024-05-01 07:29:00"}}
	}`

	md, err := ParseProbe([]byte(data))
	require.NoError(t, err)
	require.InDelta(t, 25.0, md.FrameRate, 0)
	require.Equal(t, "25/1", md.RawFrameRate)
	require.Zero(t, md.Frames)
	require.Equal(t, 250, md.EstimatedFrames())
	require.Equal(t, time.Date(2024, 5, 1, 7, 29, 0, 0, time.UTC), md.CreationTime)
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no video", `{"streams":[{"codec_type":"audio"}]}`, errs.ErrNoVideoStream},
		{"no rate", `{"streams":[{"codec_type":"video","r_frame_rate":"0/0"}]}`, errs.ErrNoFrameRate},
		{"no creation", `{"streams":[{"codec_type":"video","r_frame_rate":"30/1"}]}`, errs.ErrNoCreationTime},
		{"bad creation", `{"streams":[{"codec_type":"video","r_frame_rate":"30/1","tags":{"creation_time":"yesterday"}}]}`, errs.ErrNoCreationTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProbe([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseProbe([]byte("not json"))
	require.Error(t, err)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30000/1001", 30000.0 / 1001.0, true},
		{"60/1", 60, true},
		{"24", 24, true},
		{"0/0", 0, false},
		{"30/0", 0, false},
		{"-30/1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRate(tt.in)
			require.Equal(t, tt.ok, ok)
			require.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestProberUsesRunner(t *testing.T) {
	var gotName string
	var gotArgs []string

	p := &Prober{
		Binary: "ffprobe-test",
		Runner: RunnerFunc(func(_ context.Context, name string, args ...string) ([]byte, error) {
			gotName, gotArgs = name, args
			return []byte(goproProbe), nil
		}),
	}

	md, err := p.Probe(context.Background(), "ride.mp4")
	require.NoError(t, err)
	require.Equal(t, 1920, md.Width)
	require.Equal(t, "ffprobe-test", gotName)
	require.Equal(t, "ride.mp4", gotArgs[len(gotArgs)-1])
	require.Contains(t, gotArgs, "-show_streams")
}

func TestProberRunnerError(t *testing.T) {
	boom := errors.New("boom")
	p := &Prober{Binary: "ffprobe", Runner: RunnerFunc(func(context.Context, string, ...string) ([]byte, error) {
		return nil, boom
	})}

	_, err := p.Probe(context.Background(), "ride.mp4")
	require.ErrorIs(t, err, boom)
}
