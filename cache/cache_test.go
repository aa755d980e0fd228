package cache

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/blob"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/section"
	"github.com/arloliu/fitlay/telemetry"
)

var t0 = time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

func testSeries(t *testing.T, n int) *telemetry.Series {
	t.Helper()

	records := make([]telemetry.Record, n)
	for i := range records {
		records[i] = telemetry.Record{
			Timestamp: t0.Add(time.Duration(i) * time.Second),
			Values: map[telemetry.Metric]float64{
				telemetry.Power:     float64(200 + i%30),
				telemetry.HeartRate: float64(130 + i%5),
			},
		}
	}

	series, err := telemetry.Build(records)
	require.NoError(t, err)

	return series
}

func openMem(t *testing.T, opts ...Option) *Cache {
	t.Helper()

	opts = append([]Option{WithInMemory(), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))}, opts...)
	c, err := Open("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestPutGet(t *testing.T) {
	for _, comp := range []format.CompressionType{format.CompressionZstd, format.CompressionNone} {
		t.Run(comp.String(), func(t *testing.T) {
			c := openMem(t, WithCompression(comp))
			series := testSeries(t, 300)

			require.NoError(t, c.Put(42, series))

			got, ok, err := c.Get(42)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, series.Len(), got.Len())
			require.True(t, series.Start().Equal(got.Start()))
			require.True(t, series.End().Equal(got.End()))
			require.Equal(t, series.Coverage(telemetry.Power), got.Coverage(telemetry.Power))

			n, err := c.Len()
			require.NoError(t, err)
			require.Equal(t, 1, n)
		})
	}
}

func TestGetMiss(t *testing.T) {
	c := openMem(t)

	got, ok, err := c.Get(7)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestDelete(t *testing.T) {
	c := openMem(t)
	require.NoError(t, c.Put(1, testSeries(t, 10)))
	require.NoError(t, c.Delete(1))
	require.NoError(t, c.Delete(1))

	_, ok, err := c.Get(1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCorruptEntryIsDropped(t *testing.T) {
	c := openMem(t)

	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(9), []byte("not a blob"))
	}))

	_, ok, err := c.Get(9)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := c.Len()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestGetDropsEntryWithCorruptSampleCount(t *testing.T) {
	c := openMem(t)

	data, err := blob.Encode(testSeries(t, 40))
	require.NoError(t, err)
	header, err := section.ParseSeriesHeader(data)
	require.NoError(t, err)
	header.SampleCount = 0xFFFFFFF0
	copy(data, header.Bytes())

	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(11), data)
	}))

	_, ok, err := c.Get(11)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := c.Len()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir, WithTTL(time.Hour))
	require.NoError(t, err)
	require.NoError(t, c.Put(5, testSeries(t, 20)))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get(5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, got.Len())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)

	_, err = Open("", WithInMemory(), WithTTL(-time.Second))
	require.Error(t, err)

	_, err = Open("", WithInMemory(), WithCompression(format.CompressionType(0)))
	require.Error(t, err)
}

func TestPutEmptySeries(t *testing.T) {
	c := openMem(t)
	require.Error(t, c.Put(1, nil))
}
