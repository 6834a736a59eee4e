package response

import (
	"errors"

	"quotedesk/pkg"
)

type ErrorResponse struct {
	Kind    string            `json:"kind"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// FromError renders err for the terminal. Errors outside the AppError
// hierarchy are reported as internal without their text.
func FromError(err error) ErrorResponse {
	var appErr *pkg.AppError
	if errors.As(err, &appErr) {
		return ErrorResponse{
			Kind:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}
	return ErrorResponse{Kind: string(pkg.KindInternal), Code: "INTERNAL_ERROR", Message: "an internal error occurred"}
}
