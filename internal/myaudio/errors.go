package myaudio

import (
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const componentName = "myaudio"

func audioError(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(componentName).
		Category(errors.CategoryAudio).
		Build()
}

func validationError(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(componentName).
		Category(errors.CategoryValidation).
		Build()
}
