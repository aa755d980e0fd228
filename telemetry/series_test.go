package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/errs"
)

var t0 = time.Date(2023, 5, 25, 15, 15, 45, 0, time.UTC)

func rec(offset time.Duration, values map[Metric]float64) Record {
	return Record{Timestamp: t0.Add(offset), Values: values}
}

func TestBuild(t *testing.T) {
	t.Run("preserves order and values", func(t *testing.T) {
		s, err := Build([]Record{
			rec(0, map[Metric]float64{Power: 100, HeartRate: 120}),
			rec(time.Second, map[Metric]float64{Power: 0}),
			rec(2*time.Second, nil),
		})
		require.NoError(t, err)
		require.Equal(t, 3, s.Len())

		first, err := s.At(0)
		require.NoError(t, err)
		assert.True(t, first.Timestamp.Equal(t0))
		assert.Equal(t, 100.0, first.Value(Power).Or(-1))
		assert.Equal(t, 120.0, first.Value(HeartRate).Or(-1))
		assert.False(t, first.Has(Speed))

		second, err := s.At(1)
		require.NoError(t, err)
		v, ok := second.Value(Power).Get()
		assert.True(t, ok, "zero watts must stay present")
		assert.Zero(t, v)
		assert.False(t, second.Has(HeartRate))

		third, err := s.At(2)
		require.NoError(t, err)
		assert.Empty(t, third.Present())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Build(nil)
		require.ErrorIs(t, err, errs.ErrEmptySeries)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		_, err := Build([]Record{
			rec(0, nil),
			{Values: map[Metric]float64{Power: 10}},
		})
		require.ErrorIs(t, err, errs.ErrMissingTimestamp)
		require.Contains(t, err.Error(), "record 1")
	})

	t.Run("ties are accepted", func(t *testing.T) {
		s, err := Build([]Record{rec(0, nil), rec(0, nil), rec(time.Second, nil)})
		require.NoError(t, err)
		require.Equal(t, 3, s.Len())
	})

	t.Run("decreasing timestamps", func(t *testing.T) {
		_, err := Build([]Record{rec(time.Second, nil), rec(0, nil)})
		require.ErrorIs(t, err, errs.ErrUnorderedTimestamps)
	})

	t.Run("non-finite values become absent", func(t *testing.T) {
		s, err := Build([]Record{rec(0, map[Metric]float64{
			Power:    math.NaN(),
			Speed:    math.Inf(1),
			Distance: 12.5,
		})})
		require.NoError(t, err)

		smp, err := s.At(0)
		require.NoError(t, err)
		assert.False(t, smp.Has(Power))
		assert.False(t, smp.Has(Speed))
		assert.True(t, smp.Has(Distance))
	})

	t.Run("undefined metric keys are ignored", func(t *testing.T) {
		s, err := Build([]Record{rec(0, map[Metric]float64{Metric(200): 1})})
		require.NoError(t, err)
		smp, _ := s.At(0)
		assert.Empty(t, smp.Present())
	})
}

func TestSeries_Accessors(t *testing.T) {
	s, err := Build([]Record{
		rec(0, map[Metric]float64{Power: 100}),
		rec(10*time.Second, map[Metric]float64{Power: 200, HeartRate: 130}),
		rec(20*time.Second, map[Metric]float64{Power: 150}),
	})
	require.NoError(t, err)

	assert.True(t, s.Start().Equal(t0))
	assert.True(t, s.End().Equal(t0.Add(20*time.Second)))
	assert.Equal(t, 20*time.Second, s.Duration())
	assert.True(t, s.Timestamp(1).Equal(t0.Add(10*time.Second)))
	assert.Equal(t, 3, s.Coverage(Power))
	assert.Equal(t, 1, s.Coverage(HeartRate))
	assert.Equal(t, 0, s.Coverage(Speed))

	_, err = s.At(3)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = s.At(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	var indices []int
	for i, smp := range s.Samples() {
		indices = append(indices, i)
		assert.True(t, smp.Has(Power))
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, indices)
}

func TestSeries_NilLen(t *testing.T) {
	var s *Series
	assert.Zero(t, s.Len())
	_, err := s.At(0)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestFromSamples(t *testing.T) {
	samples := []Sample{
		NewSample(t0).With(Power, Some(1)),
		NewSample(t0.Add(time.Second)).With(Power, Some(2)),
	}
	s, err := FromSamples(samples)
	require.NoError(t, err)

	samples[0] = samples[0].With(Power, Some(99))
	first, _ := s.At(0)
	assert.Equal(t, 1.0, first.Value(Power).Or(0), "series must not alias the input slice")

	_, err = FromSamples(nil)
	require.ErrorIs(t, err, errs.ErrEmptySeries)

	_, err = FromSamples([]Sample{NewSample(time.Time{})})
	require.ErrorIs(t, err, errs.ErrMissingTimestamp)

	_, err = FromSamples([]Sample{NewSample(t0.Add(time.Second)), NewSample(t0)})
	require.ErrorIs(t, err, errs.ErrUnorderedTimestamps)
}
