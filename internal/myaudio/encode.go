package myaudio

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const (
	outputBitDepth = 16
	outputChannels = 1
	pcmFullScale16 = 32767
)

// WriteWAV saves samples as a 16-bit mono WAV file at path, creating parent
// directories as needed.
func WriteWAV(fs afero.Fs, path string, samples []float64, sampleRate int) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileError(fmt.Errorf("failed to create directories: %w", err), filepath.Dir(path))
	}

	outFile, err := fs.Create(path)
	if err != nil {
		return errors.FileError(fmt.Errorf("failed to create file: %w", err), path)
	}

	if err := EncodeWAV(outFile, samples, sampleRate); err != nil {
		outFile.Close()
		return errors.Wrap(err).Component(componentName).FileContext(path).Build()
	}
	if err := outFile.Close(); err != nil {
		return errors.FileError(fmt.Errorf("failed to close file: %w", err), path)
	}
	return nil
}

// EncodeWAV writes samples as 16-bit mono PCM to w.
func EncodeWAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return validationError("sample rate must be positive, got %d", sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, outputBitDepth, outputChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Data:           floatsToPCM16(samples),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: outputChannels},
		SourceBitDepth: outputBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return audioError("failed to write to WAV encoder: %v", err)
	}

	// Close finalizes the RIFF header sizes.
	if err := enc.Close(); err != nil {
		return audioError("failed to finalize WAV file: %v", err)
	}
	return nil
}

// floatsToPCM16 converts [-1, 1] samples to 16-bit integers, clipping
// anything outside the range.
func floatsToPCM16(samples []float64) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		out[i] = int(math.Round(s * pcmFullScale16))
	}
	return out
}
