// config.go: settings struct for birdprep and functions to load and save it.
package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// Paths holds the data directory layout. Subdirectories that are not
// absolute are resolved against DataRoot.
type Paths struct {
	DataRoot       string `mapstructure:"dataroot" yaml:"dataroot"`             // root data directory
	CSVRawDir      string `mapstructure:"csvrawdir" yaml:"csvrawdir"`           // compiled / per-location detection CSVs
	CSVSplitDir    string `mapstructure:"csvsplitdir" yaml:"csvsplitdir"`       // one CSV per recording window
	WavDir         string `mapstructure:"wavdir" yaml:"wavdir"`                 // full-length recordings
	ChunkDir       string `mapstructure:"chunkdir" yaml:"chunkdir"`             // fixed-length wav chunks
	SpectrogramDir string `mapstructure:"spectrogramdir" yaml:"spectrogramdir"` // rendered spectrogram images
	LabelDir       string `mapstructure:"labeldir" yaml:"labeldir"`             // exported box labels
}

// SpectrogramSettings are the mel-spectrogram parameters.
type SpectrogramSettings struct {
	NFFT    int     `mapstructure:"nfft" yaml:"nfft"`       // STFT window length in samples
	Hop     int     `mapstructure:"hop" yaml:"hop"`         // STFT hop length in samples
	NumMels int     `mapstructure:"nummels" yaml:"nummels"` // number of mel bands
	MinFreq float64 `mapstructure:"minfreq" yaml:"minfreq"` // lowest mel band edge in Hz
	MaxFreq float64 `mapstructure:"maxfreq" yaml:"maxfreq"` // highest band edge in Hz, capped at Nyquist
	Width   int     `mapstructure:"width" yaml:"width"`     // rendered image width in pixels
	Height  int     `mapstructure:"height" yaml:"height"`   // rendered image height in pixels
}

// LabellerSettings configure the interactive spectrogram labeller.
type LabellerSettings struct {
	ChunkSeconds float64  `mapstructure:"chunkseconds" yaml:"chunkseconds"` // visible chunk length
	Classes      []string `mapstructure:"classes" yaml:"classes"`           // selectable box classes, index = YOLO class id
	DefaultClass string   `mapstructure:"defaultclass" yaml:"defaultclass"` // class selected at start
}

// ChunkerSettings configure batch wav chunking.
type ChunkerSettings struct {
	ChunkSeconds float64 `mapstructure:"chunkseconds" yaml:"chunkseconds"` // chunk length
	HopSeconds   float64 `mapstructure:"hopseconds" yaml:"hopseconds"`     // step between chunk starts
	Spectrograms bool    `mapstructure:"spectrograms" yaml:"spectrograms"` // also render a PNG per chunk
}

// DecompileSettings configure the location split of the compiled CSV.
type DecompileSettings struct {
	Locations []string `mapstructure:"locations" yaml:"locations"` // locations to keep
}

// LogSettings configure logging output.
type LogSettings struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	File  string `mapstructure:"file" yaml:"file"`   // optional JSON log file
}

// Settings is the complete birdprep configuration.
type Settings struct {
	Debug       bool                `mapstructure:"debug" yaml:"debug"`
	Paths       Paths               `mapstructure:"paths" yaml:"paths"`
	Spectrogram SpectrogramSettings `mapstructure:"spectrogram" yaml:"spectrogram"`
	Labeller    LabellerSettings    `mapstructure:"labeller" yaml:"labeller"`
	Chunker     ChunkerSettings     `mapstructure:"chunker" yaml:"chunker"`
	Decompile   DecompileSettings   `mapstructure:"decompile" yaml:"decompile"`
	Log         LogSettings         `mapstructure:"log" yaml:"log"`
}

// NewViper returns a viper instance with defaults and environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaultConfig(v)
	bindEnv(v)
	return v
}

// Load reads the optional config file, .env and environment into Settings.
// An empty configFile searches the default config paths; a missing file is
// not an error, defaults apply.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	// .env is optional; values already in the environment win
	_ = godotenv.Load()

	if err := readConfig(v, configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error validating settings: %w", err)).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	return settings, nil
}

// Defaults returns the built-in settings without reading any file or
// environment.
func Defaults() (*Settings, error) {
	v := viper.New()
	setDefaultConfig(v)

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling default config: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return settings, nil
}

func readConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range DefaultConfigPaths() {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			FileContext(configFile).
			Build()
	}
	return nil
}

// DefaultConfigPaths returns the directories searched for config.yaml.
func DefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "birdprep"))
	}
	return paths
}

// SaveYAMLConfig writes settings to configPath as YAML through a temporary
// file in the same directory.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileError(err, dir)
	}

	tempFile, err := os.CreateTemp(dir, "config-*.yaml")
	if err != nil {
		return errors.FileError(fmt.Errorf("error creating temporary file: %w", err), dir)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return errors.FileError(fmt.Errorf("error writing to temporary file: %w", err), tempFileName)
	}
	if err := tempFile.Close(); err != nil {
		return errors.FileError(fmt.Errorf("error closing temporary file: %w", err), tempFileName)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.FileError(fmt.Errorf("error replacing config file: %w", err), configPath)
	}
	return nil
}

// MarshalYAMLText returns settings as YAML text.
func (s *Settings) MarshalYAMLText() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return string(data), nil
}
