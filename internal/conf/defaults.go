// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// DefaultClasses are the species the labeller offers. The last entry is the
// catch-all and the default for labeller.defaultclass.
var DefaultClasses = []string{
	"Eurasian Skylark",
	"Yellowhammer",
	"European Goldfinch",
	"Eurasian Linnet",
	"European Robin",
	"Spotted Flycatcher",
	"Dunnock",
	"Eurasian Magpie",
	"Unknown Bird",
}

// DefaultLocations are the recording sites kept by the decompiler.
var DefaultLocations = []string{"North Control Grassland", "Hedgerow North"}

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("paths.dataroot", "data")
	v.SetDefault("paths.csvrawdir", "csv/raw")
	v.SetDefault("paths.csvsplitdir", "csv/split")
	v.SetDefault("paths.wavdir", "wav/full")
	v.SetDefault("paths.chunkdir", "wav/chunks")
	v.SetDefault("paths.spectrogramdir", "spectrograms")
	v.SetDefault("paths.labeldir", "labels")

	// labelling preview; maxfreq is capped at Nyquist when rendering
	v.SetDefault("spectrogram.nfft", 512)
	v.SetDefault("spectrogram.hop", 128)
	v.SetDefault("spectrogram.nummels", 64)
	v.SetDefault("spectrogram.minfreq", 150.0)
	v.SetDefault("spectrogram.maxfreq", 15000.0)
	v.SetDefault("spectrogram.width", 750)
	v.SetDefault("spectrogram.height", 450)

	v.SetDefault("labeller.chunkseconds", 3.0)
	v.SetDefault("labeller.classes", DefaultClasses)
	v.SetDefault("labeller.defaultclass", DefaultClasses[len(DefaultClasses)-1])

	v.SetDefault("chunker.chunkseconds", 3.0)
	v.SetDefault("chunker.hopseconds", 1.0)
	v.SetDefault("chunker.spectrograms", false)

	v.SetDefault("decompile.locations", DefaultLocations)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}
