package spectrogram

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const outputDirPermissions = 0o755

// magma is a coarse sampling of the matplotlib magma colormap.
var magma = []color.NRGBA{
	{0, 0, 4, 255},
	{28, 16, 68, 255},
	{79, 18, 123, 255},
	{129, 37, 129, 255},
	{181, 54, 122, 255},
	{229, 80, 100, 255},
	{251, 135, 97, 255},
	{254, 194, 135, 255},
	{252, 253, 191, 255},
}

// Colormap maps v in [0, 1] onto the magma palette.
func Colormap(v float64) color.NRGBA {
	v = math.Max(0, math.Min(1, v))
	pos := v * float64(len(magma)-1)
	i := int(pos)
	if i >= len(magma)-1 {
		return magma[len(magma)-1]
	}
	frac := pos - float64(i)
	a, b := magma[i], magma[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.NRGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// Render draws m with one pixel per frame and band, the lowest band at the
// bottom, then resizes to width x height. A zero width or height keeps the
// native size. Power spectrograms are converted to dB first.
func Render(m *Mel, width, height int) image.Image {
	if !m.Decibels {
		m = m.PowerToDB()
	}

	frames, bands := m.Frames(), m.Bands()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range m.Data {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo

	img := image.NewNRGBA(image.Rect(0, 0, frames, bands))
	for b, row := range m.Data {
		y := bands - 1 - b
		for x, v := range row {
			var level float64
			if span > 0 {
				level = (v - lo) / span
			}
			img.SetNRGBA(x, y, Colormap(level))
		}
	}

	if width <= 0 || height <= 0 || (width == frames && height == bands) {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// SavePNG encodes img as PNG at path, creating parent directories.
func SavePNG(fs afero.Fs, path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, outputDirPermissions); err != nil {
		return errors.FileError(fmt.Errorf("failed to create output directory: %w", err), dir)
	}

	f, err := fs.Create(path)
	if err != nil {
		return errors.FileError(fmt.Errorf("failed to create spectrogram file: %w", err), path)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return errors.FileError(fmt.Errorf("failed to encode PNG: %w", err), path)
	}
	if err := f.Close(); err != nil {
		return errors.FileError(fmt.Errorf("failed to close spectrogram file: %w", err), path)
	}
	return nil
}
