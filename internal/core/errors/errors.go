package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeSelection       ErrorCode = "SELECTION_ERROR"
	CodeReport          ErrorCode = "REPORT_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxNode      = "node"
	CtxBinding   = "binding"
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

// AddContext attaches a context key to err, wrapping it as an internal error when needed.
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
	var se *SelectionError
	if errors.As(err, &se) {
		return code == CodeSelection
	}
	return false
}

// SelectionError reports a scan precondition failure. No issues are computed when it is returned.
type SelectionError struct {
	Title   string
	Message string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", CodeSelection, e.Title, e.Message)
}

func NewSelectionError(title, msg string) *SelectionError {
	return &SelectionError{Title: title, Message: msg}
}

// AsSelection unwraps a SelectionError from err.
func AsSelection(err error) (*SelectionError, bool) {
	var se *SelectionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
