package usecase

import (
	"errors"
	"strings"

	"quotedesk/pkg"

	"github.com/go-playground/validator/v10"
)

var errInvalidInput = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_INPUT", "invalid input")

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateStruct runs struct-tag validation and reports every failing field
// in the error details.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errInvalidInput.Wrap(err)
	}

	details := make(map[string]string, len(ve))
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			details[field] = "this field is required"
		default:
			details[field] = "invalid value (" + fe.Tag() + ")"
		}
		fields = append(fields, field)
	}
	return errInvalidInput.WithMessage("invalid %s", strings.Join(fields, ", ")).WithDetails(details)
}
