package encoding

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fitlay/errs"
)

func powerTrace(n int) []float64 {
	rng := rand.New(rand.NewPCG(7, 11))
	out := make([]float64, n)
	p := 200.0
	for i := range out {
		if rng.IntN(4) == 0 {
			p += float64(rng.IntN(21) - 10)
		}
		out[i] = p
	}

	return out
}

func TestNumericGorillaRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"single", []float64{237.5}},
		{"constant", []float64{140, 140, 140, 140, 140}},
		{"power", powerTrace(1000)},
		{"speed", []float64{8.333, 8.41, 8.402, 8.5, 0, 0, 12.75}},
		{"extremes", []float64{0, -0.0, math.MaxFloat64, math.SmallestNonzeroFloat64, -1e300, 1}},
		{"coords", []float64{45.523064, 45.523071, 45.523102, 45.523188}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewNumericGorillaEncoder()
			defer enc.Finish()

			enc.WriteSlice(tt.values)
			data := enc.Bytes()
			require.Equal(t, len(data), enc.Size())

			got, err := NewNumericGorillaDecoder().Decode(data, len(tt.values))
			require.NoError(t, err)
			require.Len(t, got, len(tt.values))
			for i := range got {
				require.Equal(t, math.Float64bits(tt.values[i]), math.Float64bits(got[i]), "index %d", i)
			}
		})
	}
}

func TestNumericGorillaConstantIsCompact(t *testing.T) {
	enc := NewNumericGorillaEncoder()
	defer enc.Finish()

	for range 800 {
		enc.Write(72)
	}

	// 8 bytes for the first value, one bit for each repeat
	require.Equal(t, 8+100, len(enc.Bytes()))
}

func TestNumericGorillaTruncated(t *testing.T) {
	values := powerTrace(64)

	enc := NewNumericGorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice(values)

	data := enc.Bytes()
	_, err := NewNumericGorillaDecoder().Decode(data[:len(data)/2], len(values))
	require.ErrorIs(t, err, errs.ErrCorruptPayload)

	_, err = NewNumericGorillaDecoder().Decode(nil, 1)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)
}

func TestNumericGorillaRejectsOversizedCount(t *testing.T) {
	enc := NewNumericGorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice(powerTrace(50))

	dec := NewNumericGorillaDecoder()
	_, err := dec.Decode(enc.Bytes(), 0xFFFFFFF0)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)

	_, err = dec.Decode(enc.Bytes(), -1)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)

	// a single value needs exactly the 64-bit header
	values, err := dec.Decode(enc.Bytes()[:8], 1)
	require.NoError(t, err)
	require.Len(t, values, 1)
}

func TestNumericGorillaReset(t *testing.T) {
	enc := NewNumericGorillaEncoder()
	defer enc.Finish()

	enc.WriteSlice([]float64{1, 2, 3})
	enc.Reset()
	enc.WriteSlice([]float64{9, 9.5})

	got, err := NewNumericGorillaDecoder().Decode(enc.Bytes(), 2)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 9.5}, got)
}

func TestBitReaderWriter(t *testing.T) {
	enc := NewNumericGorillaEncoder()
	defer enc.Finish()

	w := &enc.bw
	w.writeBits(0b101, 3)
	w.writeBits(0x1F, 5)
	w.writeBits(math.MaxUint64, 64)
	w.writeBit(0)
	w.flush()

	r := bitReader{data: w.buf.Bytes()}
	v, ok := r.readBits(3)
	require.True(t, ok)
	require.Equal(t, uint64(0b101), v)

	v, ok = r.readBits(5)
	require.True(t, ok)
	require.Equal(t, uint64(0x1F), v)

	v, ok = r.readBits(64)
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64), v)

	bit, ok := r.readBit()
	require.True(t, ok)
	require.Zero(t, bit)
}

func BenchmarkNumericGorillaEncode(b *testing.B) {
	values := powerTrace(3600)
	for b.Loop() {
		enc := NewNumericGorillaEncoder()
		enc.WriteSlice(values)
		_ = enc.Bytes()
		enc.Finish()
	}
}

func BenchmarkNumericGorillaDecode(b *testing.B) {
	values := powerTrace(3600)
	enc := NewNumericGorillaEncoder()
	enc.WriteSlice(values)
	data := append([]byte(nil), enc.Bytes()...)
	enc.Finish()

	dec := NewNumericGorillaDecoder()
	for b.Loop() {
		_, _ = dec.Decode(data, len(values))
	}
}
