package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Source errors
	ErrSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrDecode            ErrorCode = "DECODE"

	// Rule record errors
	ErrMissingField ErrorCode = "MISSING_FIELD"
	ErrInvalidField ErrorCode = "INVALID_FIELD"

	// Output errors
	ErrEncode    ErrorCode = "ENCODE"
	ErrSinkWrite ErrorCode = "SINK_WRITE"
)

// RulesError represents a structured error with code and details
type RulesError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *RulesError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Wrapped == nil {
		return msg
	}
	return msg + ": " + e.Wrapped.Error()
}

func (e *RulesError) Unwrap() error { return e.Wrapped }

// Is reports a match for any *RulesError with the same code, so callers can
// compare against a sentinel built with New.
func (e *RulesError) Is(target error) bool {
	t, ok := target.(*RulesError)
	return ok && t.Code == e.Code
}

func build(code ErrorCode, message string, wrapped error) *RulesError {
	return &RulesError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: wrapped,
	}
}

func New(code ErrorCode, message string) *RulesError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *RulesError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. A nil err yields nil so callers can
// wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *RulesError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RulesError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// WithDetail records key/value context (record index, field, url, status)
// and returns e for chaining.
func (e *RulesError) WithDetail(key string, value interface{}) *RulesError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// find returns the outermost RulesError in err's chain
func find(err error) *RulesError {
	var re *RulesError
	if errors.As(err, &re) {
		return re
	}
	return nil
}

func IsErrorCode(err error, code ErrorCode) bool {
	re := find(err)
	return re != nil && re.Code == code
}

// GetErrorCode returns ErrUnknown for errors outside this package
func GetErrorCode(err error) ErrorCode {
	if re := find(err); re != nil {
		return re.Code
	}
	return ErrUnknown
}

func GetErrorDetails(err error) map[string]interface{} {
	if re := find(err); re != nil {
		return re.Details
	}
	return nil
}
