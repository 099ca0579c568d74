package myaudio

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// WAV format tags accepted by the decoder.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// ReadWAV decodes the WAV file at path.
func ReadWAV(fs afero.Fs, path string) (*Audio, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open wav: %w", err), path)
	}
	defer file.Close()

	a, err := DecodeWAV(file)
	if err != nil {
		return nil, errors.Wrap(err).Component(componentName).FileContext(path).Build()
	}
	return a, nil
}

// DecodeWAV decodes 16, 24 or 32-bit integer PCM, mono or stereo. Stereo
// frames are averaged into one channel.
func DecodeWAV(r io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return nil, audioError("input is not a valid WAV audio file")
	}
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return nil, audioError("unsupported WAV encoding: format tag %d", decoder.WavAudioFormat)
	}
	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return nil, audioError("unsupported number of channels: %d", decoder.NumChans)
	}

	divisor, err := getAudioDivisor(int(decoder.BitDepth))
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, errors.New(fmt.Errorf("decode wav samples: %w", err)).
			Component(componentName).
			Category(errors.CategoryAudio).
			Build()
	}

	channels := int(decoder.NumChans)
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / divisor
	}

	return &Audio{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   int(decoder.BitDepth),
	}, nil
}

// getAudioDivisor returns the full-scale value for an integer bit depth.
func getAudioDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, audioError("unsupported bit depth: %d", bitDepth)
	}
}
