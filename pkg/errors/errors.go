// Package errors provides structured error types for plt.
//
// Every failure surfaced by the plotting pipeline is an *Error carrying:
//   - a machine-readable Code (what went wrong)
//   - the Stage that failed (limits, ticks, layout, draw, encode, ...)
//   - a human-readable message and an optional wrapped cause
//
// # Error Codes
//
// Error codes follow the naming convention of the rest of the project:
//   - INVALID_*: Input or configuration validation failures
//   - *_ERROR: Backend failures (drawing, encoding)
//   - domain codes such as NO_FINITE_DATA or INSUFFICIENT_SPACE
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLimits, "min %g must be less than max %g", lo, hi).
//		In(errors.StageLimits)
//	if errors.Is(err, errors.ErrCodeInvalidLimits) {
//	    // Handle invalid limits
//	}
//
//	// Wrap backend errors
//	err := errors.Wrap(errors.ErrCodeDraw, cause, "draw polyline").In(errors.StageDraw)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Plotting pipeline errors
	ErrCodeInvalidLimits     Code = "INVALID_LIMITS"
	ErrCodeNoFiniteData      Code = "NO_FINITE_DATA"
	ErrCodeMismatchedLength  Code = "MISMATCHED_SERIES_LENGTH"
	ErrCodeInsufficientSpace Code = "INSUFFICIENT_SPACE"
	ErrCodeInvalidTicks      Code = "INVALID_TICKS"
	ErrCodeInvalidLayout     Code = "INVALID_LAYOUT"
	ErrCodeInvalidIndex      Code = "INVALID_INDEX"

	// Backend errors
	ErrCodeDraw     Code = "DRAW_ERROR"
	ErrCodeEncoding Code = "ENCODING_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Stage names the pipeline step that produced an error.
type Stage string

// Pipeline stages.
const (
	StageLimits Stage = "limits"
	StageTicks  Stage = "ticks"
	StageLayout Stage = "layout"
	StageDraw   Stage = "draw"
	StageEncode Stage = "encode"
	StageConfig Stage = "config"
	StageBuild  Stage = "build"
)

// Error is a structured error with a code, a stage and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Stage   Stage  // Pipeline stage (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface. Causes carrying the same code are
// rendered without repeating it, so a chain of annotations reads as
// "CODE [stage]: outer: inner: message".
func (e *Error) Error() string {
	prefix := string(e.Code)
	if stage := e.stage(); stage != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Code, stage)
	}
	return prefix + ": " + e.detail()
}

// stage returns the first stage set along the same-code chain.
func (e *Error) stage() Stage {
	for c := e; c != nil; c = c.sameCodeCause() {
		if c.Stage != "" {
			return c.Stage
		}
	}
	return ""
}

func (e *Error) detail() string {
	if e.Cause == nil {
		return e.Message
	}
	if c := e.sameCodeCause(); c != nil {
		return e.Message + ": " + c.detail()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) sameCodeCause() *Error {
	if c, ok := e.Cause.(*Error); ok && c.Code == e.Code {
		return c
	}
	return nil
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// In sets the stage on e and returns it, for chaining after New or Wrap.
func (e *Error) In(stage Stage) *Error {
	e.Stage = stage
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Context annotates err with a message, keeping its code.
//
//	return errors.Context(err, "subplot %d", i)
func Context(err error, format string, args ...any) *Error {
	return Wrap(GetCode(err), err, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As is the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// StageOf returns the stage of the outermost *Error in the chain that has one.
func StageOf(err error) Stage {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Stage != "" {
			return e.Stage
		}
		err = e.Cause
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// IsInputError reports whether err was caused by caller-supplied data or
// configuration rather than by a backend failure.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidLimits, ErrCodeNoFiniteData, ErrCodeMismatchedLength,
		ErrCodeInsufficientSpace, ErrCodeInvalidTicks, ErrCodeInvalidLayout,
		ErrCodeInvalidIndex, ErrCodeInvalidInput, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return true
	}
	return false
}
