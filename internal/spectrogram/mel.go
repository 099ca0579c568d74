package spectrogram

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// Mel is a mel spectrogram indexed [band][frame]. Band 0 is the lowest
// frequency.
type Mel struct {
	Data       [][]float64
	SampleRate int
	Hop        int
	MinFreq    float64
	MaxFreq    float64
	Decibels   bool // Data holds dB values after PowerToDB
}

// Bands returns the number of mel bands.
func (m *Mel) Bands() int {
	return len(m.Data)
}

// Frames returns the number of STFT frames.
func (m *Mel) Frames() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Compute returns the mel power spectrogram of samples. The signal is
// centred by reflect-padding NFFT/2 samples on each side and windowed
// with a periodic Hann window, giving 1 + len(samples)/Hop frames.
func Compute(samples []float64, sampleRate int, p Params) (*Mel, error) {
	if err := p.Validate(sampleRate); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.Newf("cannot compute spectrogram of empty audio").
			Component(componentName).
			Category(errors.CategoryAudio).
			Build()
	}

	power := stftPower(samples, p.NFFT, p.Hop)
	fmax := p.EffectiveMaxFreq(sampleRate)
	weights := melFilterbank(sampleRate, p.NFFT, p.NumMels, p.MinFreq, fmax)

	frames := len(power)
	data := make([][]float64, p.NumMels)
	for m, w := range weights {
		row := make([]float64, frames)
		for t, spectrum := range power {
			var sum float64
			for k, wk := range w {
				if wk != 0 {
					sum += wk * spectrum[k]
				}
			}
			row[t] = sum
		}
		data[m] = row
	}

	return &Mel{
		Data:       data,
		SampleRate: sampleRate,
		Hop:        p.Hop,
		MinFreq:    p.MinFreq,
		MaxFreq:    fmax,
	}, nil
}

// stftPower returns |STFT|^2 per frame, each with NFFT/2+1 bins.
func stftPower(samples []float64, nfft, hop int) [][]float64 {
	pad := nfft / 2
	n := len(samples)
	frames := 1 + n/hop

	window := hannPeriodic(nfft)
	fft := fourier.NewFFT(nfft)
	frame := make([]float64, nfft)
	coeff := make([]complex128, nfft/2+1)

	out := make([][]float64, frames)
	for t := range frames {
		start := t*hop - pad
		for i := range nfft {
			frame[i] = samples[reflectIndex(start+i, n)] * window[i]
		}
		coeff = fft.Coefficients(coeff, frame)

		spectrum := make([]float64, len(coeff))
		for k, c := range coeff {
			mag := cmplx.Abs(c)
			spectrum[k] = mag * mag
		}
		out[t] = spectrum
	}
	return out
}

// reflectIndex mirrors i into [0, n) without repeating the edge sample.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

func hannPeriodic(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSP      = 200.0 / 3
	melMinLogHz = 1000.0
	melMinLog   = melMinLogHz / melFSP
)

var melLogStep = math.Log(6.4) / 27.0

// HzToMel converts a frequency to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz < melMinLogHz {
		return hz / melFSP
	}
	return melMinLog + math.Log(hz/melMinLogHz)/melLogStep
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64) float64 {
	if mel < melMinLog {
		return mel * melFSP
	}
	return melMinLogHz * math.Exp(melLogStep*(mel-melMinLog))
}

// melFilterbank returns area-normalised triangular filters, one row per
// band, over the NFFT/2+1 FFT bins.
func melFilterbank(sampleRate, nfft, numMels int, fmin, fmax float64) [][]float64 {
	bins := nfft/2 + 1
	fftFreqs := make([]float64, bins)
	for k := range fftFreqs {
		fftFreqs[k] = float64(k) * float64(sampleRate) / float64(nfft)
	}

	edges := make([]float64, numMels+2)
	lo, hi := HzToMel(fmin), HzToMel(fmax)
	for i := range edges {
		edges[i] = MelToHz(lo + (hi-lo)*float64(i)/float64(numMels+1))
	}

	weights := make([][]float64, numMels)
	for m := range numMels {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		norm := 2.0 / (right - left)

		row := make([]float64, bins)
		for k, f := range fftFreqs {
			lower := (f - left) / (center - left)
			upper := (right - f) / (right - center)
			row[k] = math.Max(0, math.Min(lower, upper)) * norm
		}
		weights[m] = row
	}
	return weights
}
