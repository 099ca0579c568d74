package myaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioDuration(t *testing.T) {
	t.Parallel()

	a := &Audio{Samples: make([]float64, 48000*3+24000), SampleRate: 48000}
	assert.InDelta(t, 3.5, a.Duration(), 1e-12)

	var empty *Audio
	assert.Zero(t, empty.Duration())
	assert.Zero(t, (&Audio{Samples: make([]float64, 10)}).Duration())
}

func TestAudioSliceClamps(t *testing.T) {
	t.Parallel()

	a := &Audio{Samples: []float64{0, 1, 2, 3, 4}, SampleRate: 5}

	tests := []struct {
		name   string
		i0, i1 int
		want   []float64
	}{
		{name: "inside", i0: 1, i1: 3, want: []float64{1, 2}},
		{name: "negative start", i0: -4, i1: 2, want: []float64{0, 1}},
		{name: "past end", i0: 3, i1: 99, want: []float64{3, 4}},
		{name: "inverted", i0: 4, i1: 1, want: []float64{}},
		{name: "beyond data", i0: 10, i1: 20, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, a.Slice(tt.i0, tt.i1))
		})
	}
}

func TestSampleIndexRounds(t *testing.T) {
	t.Parallel()

	a := &Audio{SampleRate: 3}
	assert.Equal(t, 5, a.SampleIndex(1.6))
	assert.Equal(t, 0, a.SampleIndex(0.1))
}
