package labeller

import (
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const componentName = "labeller"

// userError reports a rejected request. The session is left unchanged.
func userError(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(componentName).
		Category(errors.CategoryUserInput).
		Build()
}
