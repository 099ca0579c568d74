package myaudio

import "math"

// Audio is a decoded recording.
type Audio struct {
	Samples    []float64 // mono, [-1, 1]
	SampleRate int
	Channels   int // channel count of the source file
	BitDepth   int
}

// Duration returns the length of the recording in seconds.
func (a *Audio) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// SampleIndex converts a time in seconds to the nearest sample index.
func (a *Audio) SampleIndex(seconds float64) int {
	return int(math.Round(seconds * float64(a.SampleRate)))
}

// Slice returns samples [i0, i1), with both bounds clamped to the data.
func (a *Audio) Slice(i0, i1 int) []float64 {
	n := len(a.Samples)
	i0 = min(max(i0, 0), n)
	i1 = min(max(i1, i0), n)
	return a.Samples[i0:i1]
}
