package pipeline

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/netplot/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks numeric ranges and the weighting option. Layout and
// cluster names are not validated; unknown names fall back to the defaults.
func (o *Options) Validate() error {
	if err := ValidateStruct(o); err != nil {
		return err
	}
	if _, err := o.Weighting(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "weighted")
	}
	if o.ExternalTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "external_timeout must not be negative")
	}
	return nil
}

// ValidateStruct validates s against its `validate` tags and reports every
// failing field in one INVALID_OPTION error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "validate options")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(errors.ErrCodeInvalidOption, "%s", strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
