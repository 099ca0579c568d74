// Package spectrogram computes mel spectrograms of mono audio and renders
// them as images.
package spectrogram

import (
	"math"
	"math/bits"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const componentName = "spectrogram"

// Params are the STFT and mel filterbank parameters.
type Params struct {
	NFFT    int
	Hop     int
	NumMels int
	MinFreq float64
	MaxFreq float64 // capped at Nyquist by EffectiveMaxFreq
}

// DefaultParams returns the parameters used for labelling previews.
func DefaultParams() Params {
	return Params{NFFT: 512, Hop: 128, NumMels: 64, MinFreq: 150, MaxFreq: 15000}
}

// ParamsFromSettings maps configuration onto Params.
func ParamsFromSettings(s conf.SpectrogramSettings) Params {
	return Params{
		NFFT:    s.NFFT,
		Hop:     s.Hop,
		NumMels: s.NumMels,
		MinFreq: s.MinFreq,
		MaxFreq: s.MaxFreq,
	}
}

// EffectiveMaxFreq returns min(MaxFreq, sampleRate/2).
func (p Params) EffectiveMaxFreq(sampleRate int) float64 {
	return math.Min(p.MaxFreq, float64(sampleRate)/2)
}

// Validate checks p against sampleRate.
func (p Params) Validate(sampleRate int) error {
	switch {
	case sampleRate <= 0:
		return paramError("sample rate must be positive", "sample_rate", sampleRate)
	case p.NFFT <= 0 || bits.OnesCount(uint(p.NFFT)) != 1:
		return paramError("nfft must be a positive power of two", "nfft", p.NFFT)
	case p.Hop <= 0:
		return paramError("hop must be positive", "hop", p.Hop)
	case p.NumMels <= 0:
		return paramError("number of mel bands must be positive", "num_mels", p.NumMels)
	case p.MinFreq < 0 || p.MinFreq >= p.EffectiveMaxFreq(sampleRate):
		return paramError("minimum frequency must be below the effective maximum", "min_freq", p.MinFreq)
	}
	return nil
}

func paramError(msg, key string, value any) error {
	return errors.Newf("invalid spectrogram parameters: %s", msg).
		Component(componentName).
		Category(errors.CategoryValidation).
		Context(key, value).
		Build()
}
