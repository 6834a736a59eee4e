package pkg

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can react without string matching.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindCorruptRecord ErrorKind = "corrupt_record"
	KindDuplicate     ErrorKind = "duplicate"
	KindIO            ErrorKind = "io"
	KindInternal      ErrorKind = "internal"
)

// AppError is the error type returned across layer boundaries.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
	Details map[string]string
}

func NewDomainError(kind ErrorKind, code, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func NewDomainErrorSimple(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches another *AppError with the same code, so sentinel values
// survive being re-wrapped with extra detail.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy of e with a more specific message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithDetails attaches per-field detail (validation problems, offending keys).
func (e *AppError) WithDetails(details map[string]string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// KindOf reports the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func IOError(op string, err error) *AppError {
	return NewDomainError(KindIO, "IO_ERROR", op, err)
}

func CorruptRecordError(what string, err error) *AppError {
	return NewDomainError(KindCorruptRecord, "CORRUPT_RECORD", what, err)
}
