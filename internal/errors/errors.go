package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MissingFileContext indicates the declaration walker ran before a file
	// identity was attached; a configuration error, not a data error
	MissingFileContext ErrorCode = "MISSING_FILE_CONTEXT"
	// NoViableDialect indicates a file failed to parse under every grammar revision
	NoViableDialect ErrorCode = "NO_VIABLE_DIALECT"
	// ParserUnavailable indicates the tree parser was compiled out
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// StoreUnavailable indicates the metrics database cannot be opened
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ConfigInvalid indicates the project configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// BaselineInvalid indicates the suppression baseline cannot be read
	BaselineInvalid ErrorCode = "BASELINE_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError represents a scalyze error with code, message and cause
type AnalysisError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new AnalysisError
func New(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// As is the standard errors.As, re-exported so callers do not need a
// second errors import alongside this package
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is the standard errors.Is, re-exported for the same reason
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// CodeOf returns the error code carried by err, or InternalError when err
// is not an AnalysisError
func CodeOf(err error) ErrorCode {
	var ae *AnalysisError
	if As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// Hints maps error codes to operator guidance shown by the CLI
var Hints = map[ErrorCode]string{
	ParserUnavailable: "rebuild with CGO_ENABLED=1 to enable tree parsing",
	StoreUnavailable:  "check that .scalyze/ is writable, or run with --save=false",
	ConfigInvalid:     "run 'scalyze config validate' to see the failing fields",
	BaselineInvalid:   "regenerate the baseline with 'scalyze baseline write'",
}

// Hint returns the guidance for an error code, if any
func Hint(code ErrorCode) string {
	return Hints[code]
}
