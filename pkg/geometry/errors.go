package geometry

import (
	"errors"
	"fmt"
)

// ErrorCode classifies geometry parse and serialize failures.
type ErrorCode string

// Geometry error codes.
const (
	CodeUnknownKind       ErrorCode = "UNKNOWN_KIND"
	CodeUnclosedRing      ErrorCode = "UNCLOSED_RING"
	CodeTruncated         ErrorCode = "TRUNCATED"
	CodeSyntax            ErrorCode = "SYNTAX"
	CodeInvalidJSON       ErrorCode = "INVALID_JSON"
	CodeMixedDimensions   ErrorCode = "MIXED_DIMENSIONS"
	CodeTooFewPoints      ErrorCode = "TOO_FEW_POINTS"
	CodeOutOfBounds       ErrorCode = "OUT_OF_BOUNDS"
	CodeUnsupportedKind   ErrorCode = "UNSUPPORTED_KIND"
	CodeInvalidSRID       ErrorCode = "INVALID_SRID"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// ParseError reports malformed geometry text. Input holds an excerpt of the
// text around Offset.
type ParseError struct {
	Code    ErrorCode
	Message string
	Input   string
	Offset  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("geometry parse error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("geometry parse error [%s] at offset %d: %s (near %q)", e.Code, e.Offset, e.Message, e.Input)
}

// Is matches another ParseError by code.
func (e *ParseError) Is(target error) bool {
	var pe *ParseError
	if errors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// Sentinel parse errors for errors.Is checks.
var (
	ErrUnknownKind     = &ParseError{Code: CodeUnknownKind}
	ErrUnclosedRing    = &ParseError{Code: CodeUnclosedRing}
	ErrTruncated       = &ParseError{Code: CodeTruncated}
	ErrSyntax          = &ParseError{Code: CodeSyntax}
	ErrInvalidJSON     = &ParseError{Code: CodeInvalidJSON}
	ErrMixedDimensions = &ParseError{Code: CodeMixedDimensions}
	ErrTooFewPoints    = &ParseError{Code: CodeTooFewPoints}
	ErrOutOfBounds     = &ParseError{Code: CodeOutOfBounds}
	ErrUnsupportedKind = &ParseError{Code: CodeUnsupportedKind}
	ErrInvalidSRID     = &ParseError{Code: CodeInvalidSRID}
)

// SerializeError reports a geometry that cannot be written in a format.
type SerializeError struct {
	Code   ErrorCode
	Kind   Kind
	Format Format
	// Reason names the part of the geometry that has no representation,
	// when it is not the kind itself.
	Reason string
}

// Error implements the error interface.
func (e *SerializeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("geometry serialize error [%s]: %s with %s has no %s representation", e.Code, e.Kind, e.Reason, e.Format)
	}
	return fmt.Sprintf("geometry serialize error [%s]: %s has no %s representation", e.Code, e.Kind, e.Format)
}

// Is matches another SerializeError by code.
func (e *SerializeError) Is(target error) bool {
	var se *SerializeError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// ErrUnsupportedFormat matches any SerializeError for an unsupported format.
var ErrUnsupportedFormat = &SerializeError{Code: CodeUnsupportedFormat}

const excerptRadius = 24

// excerpt returns the text surrounding offset, clipped to excerptRadius bytes
// on either side.
func excerpt(src string, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	start := max(offset-excerptRadius, 0)
	end := min(offset+excerptRadius, len(src))
	return src[start:end]
}

func newParseError(code ErrorCode, src string, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Input:   excerpt(src, offset),
		Offset:  offset,
	}
}
