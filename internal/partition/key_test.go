package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

func TestRecordingKeyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		date  string
		clock string
		want  RecordingKey
	}{
		{name: "evening detection", date: "05/06/2024", clock: "18:47", want: "20240605_184000"},
		{name: "top of hour", date: "05/06/2024", clock: "00:00", want: "20240605_000000"},
		{name: "end of first window", date: "01/01/2025", clock: "07:19", want: "20250101_070000"},
		{name: "start of second window", date: "01/01/2025", clock: "07:20", want: "20250101_072000"},
		{name: "end of second window", date: "01/01/2025", clock: "07:39", want: "20250101_072000"},
		{name: "start of third window", date: "01/01/2025", clock: "07:40", want: "20250101_074000"},
		{name: "last minute", date: "31/12/2024", clock: "23:59", want: "20241231_234000"},
		{name: "seconds dropped", date: "05/06/2024", clock: "18:47:33", want: "20240605_184000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RecordingKeyFor(tt.date, tt.clock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinuteBuckets(t *testing.T) {
	t.Parallel()

	for minute := range 60 {
		key, err := RecordingKeyFor("05/06/2024", fmt.Sprintf("12:%02d", minute))
		require.NoError(t, err)

		var want string
		switch {
		case minute < 20:
			want = "00"
		case minute < 40:
			want = "20"
		default:
			want = "40"
		}
		assert.Equal(t, "20240605_12"+want+"00", string(key), "minute %d", minute)
	}
}

func TestRecordingKeyForRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{name: "dashed date", date: "2024-06-05", clock: "18:47"},
		{name: "missing year", date: "05/06", clock: "18:47"},
		{name: "dotted time", date: "05/06/2024", clock: "18.47"},
		{name: "non numeric minute", date: "05/06/2024", clock: "18:xx"},
		{name: "minute out of range", date: "05/06/2024", clock: "18:75"},
		{name: "too many time parts", date: "05/06/2024", clock: "18:47:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := RecordingKeyFor(tt.date, tt.clock)
			require.Error(t, err)
			assert.True(t, errors.IsMalformedInput(err))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	key, err := ParseTimestamp("05/06/2024 18:47")
	require.NoError(t, err)
	assert.Equal(t, RecordingKey("20240605_184000"), key)

	for _, bad := range []string{"05/06/2024", "05/06/2024T18:47", "05/06/2024 18:47 PM", ""} {
		_, err := ParseTimestamp(bad)
		assert.True(t, errors.IsMalformedInput(err), "input %q", bad)
	}
}
