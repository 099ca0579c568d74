package labeller

import (
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/myaudio"
)

const testSampleRate = 8000

var testClasses = []string{"European Robin", "Dunnock", "Unknown Bird"}

type fakePlayer struct {
	plays      int
	stops      int
	lastLen    int
	lastRate   int
	failOnPlay error
}

func (f *fakePlayer) Play(samples []float64, sampleRate int) error {
	if f.failOnPlay != nil {
		return f.failOnPlay
	}
	f.plays++
	f.lastLen = len(samples)
	f.lastRate = sampleRate
	return nil
}

func (f *fakePlayer) Stop() error {
	f.stops++
	return nil
}

func testConfig() Config {
	return Config{
		Paths: conf.Paths{
			DataRoot:       "data",
			CSVSplitDir:    "data/csv/split",
			WavDir:         "data/wav/full",
			SpectrogramDir: "data/spectrograms",
			LabelDir:       "data/labels",
		},
		ChunkSeconds: 3.0,
		Classes:      testClasses,
		DefaultClass: "Unknown Bird",
		Spectrogram: conf.SpectrogramSettings{
			NFFT:    512,
			Hop:     128,
			NumMels: 64,
			MinFreq: 150,
			MaxFreq: 15000,
			Width:   120,
			Height:  80,
		},
	}
}

// writeTone stores seconds of a 1 kHz tone as data/wav/full/<name>.
func writeTone(t *testing.T, fs afero.Fs, name string, seconds float64) {
	t.Helper()

	samples := make([]float64, int(seconds*testSampleRate))
	for i := range samples {
		samples[i] = 0.3 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate)
	}
	require.NoError(t, myaudio.WriteWAV(fs, "data/wav/full/"+name, samples, testSampleRate))
}

// loadedSession returns a session with a 10 s recording loaded.
func loadedSession(t *testing.T) (*Session, afero.Fs, *fakePlayer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	writeTone(t, fs, "HedgerowNorth_20240605_184000.wav", 10)

	player := &fakePlayer{}
	s, err := NewSession(testConfig(), fs, player, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, s.LoadAudio("HedgerowNorth_20240605_184000.wav"))
	return s, fs, player
}

func posInf() float64 {
	return math.Inf(1)
}
