// conf/validate.go

package conf

import (
	"fmt"
	"slices"

	"github.com/hedgerow-pam/birdprep/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validatePaths(&settings.Paths)...)
	ve.Errors = append(ve.Errors, validateSpectrogramSettings(&settings.Spectrogram)...)
	ve.Errors = append(ve.Errors, validateLabellerSettings(&settings.Labeller)...)
	ve.Errors = append(ve.Errors, validateChunkerSettings(&settings.Chunker)...)

	if settings.Log.Level != "" && logger.ParseLevel(settings.Log.Level) != logger.LogLevel(settings.Log.Level) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("log level %q is not one of debug, info, warn, error", settings.Log.Level))
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validatePaths(p *Paths) []string {
	var errs []string
	fields := map[string]string{
		"dataroot":       p.DataRoot,
		"csvrawdir":      p.CSVRawDir,
		"csvsplitdir":    p.CSVSplitDir,
		"wavdir":         p.WavDir,
		"chunkdir":       p.ChunkDir,
		"spectrogramdir": p.SpectrogramDir,
		"labeldir":       p.LabelDir,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fields[k] == "" {
			errs = append(errs, fmt.Sprintf("paths.%s must not be empty", k))
		}
	}
	return errs
}

func validateSpectrogramSettings(s *SpectrogramSettings) []string {
	var errs []string
	if s.NFFT <= 0 || s.NFFT&(s.NFFT-1) != 0 {
		errs = append(errs, fmt.Sprintf("spectrogram.nfft must be a positive power of two, got %d", s.NFFT))
	}
	if s.Hop <= 0 {
		errs = append(errs, fmt.Sprintf("spectrogram.hop must be positive, got %d", s.Hop))
	}
	if s.NumMels <= 0 {
		errs = append(errs, fmt.Sprintf("spectrogram.nummels must be positive, got %d", s.NumMels))
	}
	if s.MinFreq < 0 || s.MaxFreq <= s.MinFreq {
		errs = append(errs, fmt.Sprintf("spectrogram frequency range %.0f-%.0f Hz is invalid", s.MinFreq, s.MaxFreq))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Sprintf("spectrogram image size %dx%d is invalid", s.Width, s.Height))
	}
	return errs
}

func validateLabellerSettings(s *LabellerSettings) []string {
	var errs []string
	if s.ChunkSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("labeller.chunkseconds must be positive, got %v", s.ChunkSeconds))
	}
	if len(s.Classes) == 0 {
		errs = append(errs, "labeller.classes must list at least one class")
	} else if !slices.Contains(s.Classes, s.DefaultClass) {
		errs = append(errs, fmt.Sprintf("labeller.defaultclass %q is not in labeller.classes", s.DefaultClass))
	}
	return errs
}

func validateChunkerSettings(s *ChunkerSettings) []string {
	var errs []string
	if s.ChunkSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("chunker.chunkseconds must be positive, got %v", s.ChunkSeconds))
	}
	if s.HopSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("chunker.hopseconds must be positive, got %v", s.HopSeconds))
	}
	return errs
}
