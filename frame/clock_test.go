package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/errs"
)

var start = time.Date(2023, 5, 25, 15, 15, 45, 0, time.UTC)

func TestNewClock(t *testing.T) {
	for _, rate := range []float64{0, -30, math.NaN(), math.Inf(1)} {
		_, err := NewClock(start, rate, 10)
		require.ErrorIs(t, err, errs.ErrInvalidFrameRate, "rate %v", rate)
	}

	_, err := NewClock(start, 30, -1)
	require.ErrorIs(t, err, errs.ErrInvalidFrameCount)

	c, err := NewClock(start, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 25.0, c.Rate())
	assert.Zero(t, c.Count())
	assert.True(t, c.Start().Equal(start))
	assert.Equal(t, 40*time.Millisecond, c.FrameDuration())
}

func TestClock_At(t *testing.T) {
	t.Run("integer rate", func(t *testing.T) {
		c, err := NewClock(start, 30, 0)
		require.NoError(t, err)
		assert.True(t, c.At(0).Equal(start))
		assert.True(t, c.At(30).Equal(start.Add(time.Second)))
		assert.Equal(t, 33333*time.Microsecond, c.Offset(1))
		assert.Equal(t, time.Hour, c.Offset(30*3600))
	})

	t.Run("ntsc rate does not drift", func(t *testing.T) {
		c, err := NewClock(start, 30000.0/1001.0, 0)
		require.NoError(t, err)
		// 30000 frames at 29.97 fps last exactly 1001 seconds
		assert.Equal(t, 1001*time.Second, c.Offset(30000))
		assert.Equal(t, 1001*time.Millisecond, c.Offset(30))
	})
}

func TestClock_IndexLookup(t *testing.T) {
	c, err := NewClock(start, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, c.IndexAtOrAfter(start.Add(-time.Hour)))
	assert.Equal(t, 0, c.IndexAtOrAfter(start))
	assert.Equal(t, 5, c.IndexAtOrAfter(start.Add(500*time.Millisecond)))
	assert.Equal(t, 6, c.IndexAtOrAfter(start.Add(501*time.Millisecond)))

	assert.Equal(t, -1, c.IndexAtOrBefore(start.Add(-time.Millisecond)))
	assert.Equal(t, 0, c.IndexAtOrBefore(start))
	assert.Equal(t, 5, c.IndexAtOrBefore(start.Add(500*time.Millisecond)))
	assert.Equal(t, 5, c.IndexAtOrBefore(start.Add(599*time.Millisecond)))

	ntsc, err := NewClock(start, 30000.0/1001.0, 0)
	require.NoError(t, err)
	for _, i := range []int{1, 29, 30, 1799, 107892} {
		assert.Equal(t, i, ntsc.IndexAtOrAfter(ntsc.At(i)), "frame %d", i)
		assert.Equal(t, i, ntsc.IndexAtOrBefore(ntsc.At(i)), "frame %d", i)
		assert.Equal(t, i+1, ntsc.IndexAtOrAfter(ntsc.At(i).Add(time.Microsecond)), "frame %d", i)
	}
}
