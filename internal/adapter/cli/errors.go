package cli

import (
	"fmt"
	"sort"

	"quotedesk/internal/adapter/cli/dto/response"
	"quotedesk/pkg"
)

const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitDuplicate  = 4
	ExitCorrupt    = 5
	ExitIO         = 6
)

var errUsage = pkg.NewDomainErrorSimple(pkg.KindValidation, "USAGE", "invalid command line")

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch pkg.KindOf(err) {
	case pkg.KindValidation:
		return ExitValidation
	case pkg.KindNotFound:
		return ExitNotFound
	case pkg.KindDuplicate:
		return ExitDuplicate
	case pkg.KindCorruptRecord:
		return ExitCorrupt
	case pkg.KindIO:
		return ExitIO
	default:
		return ExitInternal
	}
}

func usageError(format string, args ...any) error {
	return errUsage.WithMessage(format, args...)
}

func invalidInput(err error) error {
	return pkg.NewDomainError(pkg.KindValidation, "INVALID_INPUT", err.Error(), err)
}

func (h *Handler) reportError(err error) {
	res := response.FromError(err)
	fmt.Fprintf(h.errOut, "quotedesk: %s: %s\n", res.Code, res.Message)
	keys := make([]string, 0, len(res.Details))
	for k := range res.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h.errOut, "  %s: %s\n", k, res.Details[k])
	}
}
