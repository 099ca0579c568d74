package spectrogram

import (
	"image"
	"time"

	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/logger"
)

// Generator computes and renders spectrograms with fixed parameters and
// image size.
type Generator struct {
	fs     afero.Fs
	params Params
	width  int
	height int
	log    logger.Logger
}

// NewGenerator returns a Generator writing through fs.
func NewGenerator(fs afero.Fs, params Params, width, height int, log logger.Logger) *Generator {
	return &Generator{
		fs:     fs,
		params: params,
		width:  width,
		height: height,
		log:    logger.OrDiscard(log).Module(componentName),
	}
}

// NewGeneratorFromSettings builds a Generator from the spectrogram section
// of settings.
func NewGeneratorFromSettings(fs afero.Fs, s conf.SpectrogramSettings, log logger.Logger) *Generator {
	return NewGenerator(fs, ParamsFromSettings(s), s.Width, s.Height, log)
}

// Params returns the generator parameters.
func (g *Generator) Params() Params {
	return g.params
}

// Render computes the dB mel spectrogram of samples and its image.
func (g *Generator) Render(samples []float64, sampleRate int) (*Mel, image.Image, error) {
	start := time.Now()

	mel, err := Compute(samples, sampleRate, g.params)
	if err != nil {
		return nil, nil, err
	}
	db := mel.PowerToDB()
	img := Render(db, g.width, g.height)

	g.log.Debug("Rendered spectrogram",
		logger.Int("samples", len(samples)),
		logger.Int("frames", db.Frames()),
		logger.Int("bands", db.Bands()),
		logger.Duration("elapsed", time.Since(start)))
	return db, img, nil
}

// GeneratePNG renders samples and saves the image at path.
func (g *Generator) GeneratePNG(samples []float64, sampleRate int, path string) (*Mel, error) {
	db, img, err := g.Render(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	if err := SavePNG(g.fs, path, img); err != nil {
		return nil, err
	}
	g.log.Debug("Saved spectrogram", logger.String("path", path))
	return db, nil
}
