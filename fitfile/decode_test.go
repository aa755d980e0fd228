package fitfile

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"github.com/arloliu/fitlay/errs"
	"github.com/arloliu/fitlay/internal/hash"
	"github.com/arloliu/fitlay/telemetry"
)

var rideStart = time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

// encodeFIT writes a FIT file of type ft. Activity files get n one-second
// records with power 200, 201, ...
func encodeFIT(t *testing.T, ft fit.FileType, n int) []byte {
	t.Helper()

	file, err := fit.NewFile(ft, fit.NewHeader(fit.V20, true))
	require.NoError(t, err)

	if ft == fit.FileTypeActivity {
		activity, err := file.Activity()
		require.NoError(t, err)
		for i := range n {
			msg := fit.NewRecordMsg()
			msg.Timestamp = rideStart.Add(time.Duration(i) * time.Second)
			msg.Power = uint16(200 + i) //nolint:gosec
			activity.Records = append(activity.Records, msg)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))

	return buf.Bytes()
}

func TestFromRecordMsgAllInvalid(t *testing.T) {
	msg := fit.NewRecordMsg()

	rec := FromRecordMsg(msg)
	require.True(t, rec.Timestamp.IsZero())
	require.Equal(t, map[telemetry.Metric]float64{
		telemetry.Speed:    0,
		telemetry.Distance: 0,
	}, rec.Values)
}

func TestFromRecordMsgValues(t *testing.T) {
	ts := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

	msg := fit.NewRecordMsg()
	msg.Timestamp = ts
	msg.Power = 250
	msg.HeartRate = 142
	msg.Cadence = 88
	msg.Temperature = -3
	msg.Speed = 8333    // mm/s
	msg.Distance = 1250 // cm

	rec := FromRecordMsg(msg)
	require.Equal(t, ts, rec.Timestamp)
	require.InDelta(t, 250.0, rec.Values[telemetry.Power], 0)
	require.InDelta(t, 142.0, rec.Values[telemetry.HeartRate], 0)
	require.InDelta(t, 88.0, rec.Values[telemetry.Cadence], 0)
	require.InDelta(t, -3.0, rec.Values[telemetry.Temperature], 0)
	require.InDelta(t, 8.333, rec.Values[telemetry.Speed], 1e-9)
	require.InDelta(t, 12.5, rec.Values[telemetry.Distance], 1e-9)

	_, ok := rec.Values[telemetry.Latitude]
	require.False(t, ok)
	_, ok = rec.Values[telemetry.AccumulatedPower]
	require.False(t, ok)
}

func TestFromRecordMsgEnhancedSpeedWins(t *testing.T) {
	msg := fit.NewRecordMsg()
	msg.Speed = 1000
	msg.EnhancedSpeed = 12000

	rec := FromRecordMsg(msg)
	require.InDelta(t, 12.0, rec.Values[telemetry.Speed], 1e-9)
}

func TestFromRecordMsgBuildsSeries(t *testing.T) {
	start := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

	records := make([]telemetry.Record, 3)
	for i := range records {
		msg := fit.NewRecordMsg()
		msg.Timestamp = start.Add(time.Duration(i) * time.Second)
		msg.Power = uint16(200 + i)
		records[i] = FromRecordMsg(msg)
	}

	series, err := telemetry.Build(records)
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	require.Equal(t, 3, series.Coverage(telemetry.Power))
	require.Zero(t, series.Coverage(telemetry.HeartRate))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		records int
		wantErr error
	}{
		{"activity with records", encodeFIT(t, fit.FileTypeActivity, 3), 3, nil},
		{"activity without records", encodeFIT(t, fit.FileTypeActivity, 0), 0, errs.ErrNoRecords},
		{"course file", encodeFIT(t, fit.FileTypeCourse, 0), 0, errs.ErrNotActivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode(bytes.NewReader(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, records)

				return
			}

			require.NoError(t, err)
			require.Len(t, records, tt.records)
			for i, rec := range records {
				require.True(t, rec.Timestamp.Equal(rideStart.Add(time.Duration(i)*time.Second)))
				require.InDelta(t, float64(200+i), rec.Values[telemetry.Power], 0)
				require.InDelta(t, 0.0, rec.Values[telemetry.Speed], 0)
				require.InDelta(t, 0.0, rec.Values[telemetry.Distance], 0)
				_, ok := rec.Values[telemetry.HeartRate]
				require.False(t, ok)
			}
		})
	}
}

func TestDecodeFileActivity(t *testing.T) {
	data := encodeFIT(t, fit.FileTypeActivity, 3)
	path := filepath.Join(t.TempDir(), "ride.fit")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	records, fp, err := DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, hash.Fingerprint(data), fp)

	fpOnly, err := Fingerprint(path)
	require.NoError(t, err)
	require.Equal(t, fp, fpOnly)

	series, err := telemetry.Build(records)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, series.Duration())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a fit file")))
	require.Error(t, err)
}

func TestDecodeFile(t *testing.T) {
	_, _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.fit"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "junk.fit")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o600))

	_, _, err = DecodeFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)

	fp1, err := Fingerprint(path)
	require.NoError(t, err)
	fp2, err := Fingerprint(path)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}
