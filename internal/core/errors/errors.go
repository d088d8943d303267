package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeUnsupportedSyntax ErrorCode = "UNSUPPORTED_SYNTAX"
	CodeMalformedConfig   ErrorCode = "MALFORMED_CONFIG"
	CodeNoCandidates      ErrorCode = "NO_CANDIDATES"
	CodeUserCancelled     ErrorCode = "USER_CANCELLED"
	CodeInvalidState      ErrorCode = "INVALID_STATE"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// DomainError is the error type shared by every layer between the host
// editor and the import engine. None of them abort an expansion on their own;
// callers decide whether to log and continue.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath     = "path"
	CtxSyntax   = "syntax"
	CtxTerm     = "term"
	CtxModule   = "module"
	CtxSelector = "selection"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches a key/value pair, wrapping foreign errors as internal.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
