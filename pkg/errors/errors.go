// Package errors provides coded errors for netplot.
//
// Every failure the pipeline reports carries a [Code] so that the CLI can
// choose an exit status and the HTTP API a response status without
// string matching:
//   - INVALID_*: a malformed matrix, label, option or output format
//   - NOT_FOUND, FILE_NOT_FOUND: missing inputs
//   - TIMEOUT, EXTERNAL_TOOL: the VOSviewer process failed or hung
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMatrix, "matrix is %dx%d, want square", r, c)
//	if errors.Is(err, errors.ErrCodeInvalidMatrix) {
//	    // exit 2
//	}
//
//	err = errors.Wrap(errors.ErrCodeInternal, cause, "layout %s", name)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidMatrix Code = "INVALID_MATRIX"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidLabel  Code = "INVALID_LABEL"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeExternalTool Code = "EXTERNAL_TOOL"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* input codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// coded is implemented by error types that carry a fixed code.
type coded interface {
	ErrorCode() Code
}

// Error pairs a code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause. Wrapping a nil cause is the same as
// calling [New].
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain carries code. A TIMEOUT
// wrapped as INTERNAL_ERROR therefore matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := err.(coded); ok && c.ErrorCode() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" when none of
// its errors is coded.
func GetCode(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage strips the code prefix from the outermost coded error.
// Uncoded errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitError reports an external tool that ran but exited unsuccessfully.
type ExitError struct {
	Tool       string
	ExitStatus int
	// Stderr holds the last line the tool wrote to standard error, if any.
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitStatus, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitStatus)
}

// ErrorCode always returns EXTERNAL_TOOL.
func (e *ExitError) ErrorCode() Code { return ErrCodeExternalTool }
