package spectrogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

func tone(n, sampleRate int, freq float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestComputeShape(t *testing.T) {
	t.Parallel()

	const sr = 48000
	mel, err := Compute(tone(3*sr, sr, 2000), sr, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 64, mel.Bands())
	assert.Equal(t, 1+3*sr/128, mel.Frames())
	assert.InDelta(t, 15000, mel.MaxFreq, 0)
	assert.False(t, mel.Decibels)
}

func TestComputeFramesFollowHop(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	for _, n := range []int{1, 10, 127, 128, 129, 1000, 4096} {
		mel, err := Compute(tone(n, 22050, 440), 22050, p)
		require.NoError(t, err)
		assert.Equal(t, 1+n/p.Hop, mel.Frames(), "samples %d", n)
	}
}

func TestComputeToneLandsInMatchingBand(t *testing.T) {
	t.Parallel()

	const (
		sr   = 48000
		freq = 2000.0
	)
	p := DefaultParams()
	mel, err := Compute(tone(sr, sr, freq), sr, p)
	require.NoError(t, err)

	best, bestEnergy := -1, -1.0
	for b, row := range mel.Data {
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum > bestEnergy {
			best, bestEnergy = b, sum
		}
	}

	lo, hi := HzToMel(p.MinFreq), HzToMel(p.EffectiveMaxFreq(sr))
	center := MelToHz(lo + (hi-lo)*float64(best+1)/float64(p.NumMels+1))
	assert.InEpsilon(t, freq, center, 0.15, "peak band %d centred at %.0f Hz", best, center)
}

func TestComputeCapsMaxFreqAtNyquist(t *testing.T) {
	t.Parallel()

	mel, err := Compute(tone(16000, 16000, 1000), 16000, DefaultParams())
	require.NoError(t, err)
	assert.InDelta(t, 8000, mel.MaxFreq, 0)
}

func TestComputeRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Compute(nil, 48000, DefaultParams())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryAudio))

	tests := []struct {
		name   string
		mutate func(*Params)
		sr     int
	}{
		{name: "nfft not power of two", mutate: func(p *Params) { p.NFFT = 500 }, sr: 48000},
		{name: "zero hop", mutate: func(p *Params) { p.Hop = 0 }, sr: 48000},
		{name: "no mel bands", mutate: func(p *Params) { p.NumMels = 0 }, sr: 48000},
		{name: "min above nyquist", mutate: func(p *Params) { p.MinFreq = 9000 }, sr: 16000},
		{name: "zero sample rate", mutate: func(*Params) {}, sr: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultParams()
			tt.mutate(&p)
			_, err := Compute(tone(1000, 48000, 440), tt.sr, p)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

func TestMelScale(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 15.0, HzToMel(1000), 1e-12)
	assert.InDelta(t, 3.0, HzToMel(200), 1e-12)
	for _, hz := range []float64{0, 150, 999, 1000, 4000, 15000, 24000} {
		assert.InDelta(t, hz, MelToHz(HzToMel(hz)), 1e-6, "hz %.0f", hz)
	}
}

func TestReflectIndex(t *testing.T) {
	t.Parallel()

	tests := []struct{ i, n, want int }{
		{0, 5, 0}, {4, 5, 4}, {-1, 5, 1}, {-2, 5, 2}, {5, 5, 3}, {6, 5, 2},
		{-9, 5, 1}, {3, 1, 0}, {-3, 2, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reflectIndex(tt.i, tt.n), "reflectIndex(%d, %d)", tt.i, tt.n)
	}
}

func TestMelFilterbankIsTriangular(t *testing.T) {
	t.Parallel()

	weights := melFilterbank(48000, 512, 64, 150, 15000)
	require.Len(t, weights, 64)

	for m, row := range weights {
		require.Len(t, row, 257)
		nonZero := 0
		for _, w := range row {
			assert.GreaterOrEqual(t, w, 0.0)
			if w > 0 {
				nonZero++
			}
		}
		assert.Positive(t, nonZero, "band %d has no support", m)
	}
}
