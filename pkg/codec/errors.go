package codec

import (
	"errors"
	"fmt"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/value"
)

// ErrorCode classifies encode failures.
type ErrorCode string

// Encode error codes.
const (
	CodeOutOfRange        ErrorCode = "OUT_OF_RANGE"
	CodeSubtypeMismatch   ErrorCode = "SUBTYPE_MISMATCH"
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeSRIDMismatch      ErrorCode = "SRID_MISMATCH"
	CodeInvalidValue      ErrorCode = "INVALID_VALUE"
)

// EncodeError reports a canonical value the native type cannot hold. It is
// fatal to the value and surfaced to the caller as is.
type EncodeError struct {
	Code    ErrorCode
	Type    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("encode %s [%s]: %s", e.Type, e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, such as a geometry parse error.
func (e *EncodeError) Unwrap() error { return e.Err }

// Is matches another EncodeError by code.
func (e *EncodeError) Is(target error) bool {
	var ee *EncodeError
	if errors.As(target, &ee) {
		return e.Code == ee.Code
	}
	return false
}

// Sentinel encode errors for errors.Is checks.
var (
	ErrOutOfRange        = &EncodeError{Code: CodeOutOfRange}
	ErrSubtypeMismatch   = &EncodeError{Code: CodeSubtypeMismatch}
	ErrUnsupportedFormat = &EncodeError{Code: CodeUnsupportedFormat}
	ErrSRIDMismatch      = &EncodeError{Code: CodeSRIDMismatch}
	ErrInvalidValue      = &EncodeError{Code: CodeInvalidValue}
)

func encodeErrorf(code ErrorCode, nt catalog.NativeType, format string, args ...any) *EncodeError {
	return &EncodeError{Code: code, Type: typeName(nt), Message: fmt.Sprintf(format, args...)}
}

func outOfRange(nt catalog.NativeType, format string, args ...any) *EncodeError {
	return encodeErrorf(CodeOutOfRange, nt, format, args...)
}

func invalidValue(nt catalog.NativeType, err error, format string, args ...any) *EncodeError {
	e := encodeErrorf(CodeInvalidValue, nt, format, args...)
	e.Err = err
	return e
}

func unexpectedValue(nt catalog.NativeType, v value.Value) *EncodeError {
	return encodeErrorf(CodeInvalidValue, nt, "cannot encode %s value", v.Kind())
}

// DecodeError reports a driver value the native type cannot represent. It
// points at a driver/catalog mismatch and is never coerced away.
type DecodeError struct {
	Type    string
	Got     string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s from %s: %s", e.Type, e.Got, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is a DecodeError.
func (e *DecodeError) Is(target error) bool {
	var de *DecodeError
	return errors.As(target, &de)
}

// ErrDecode matches any DecodeError.
var ErrDecode = &DecodeError{}

func decodeError(nt catalog.NativeType, raw any, err error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Type:    typeName(nt),
		Got:     fmt.Sprintf("%T", raw),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func typeName(nt catalog.NativeType) string {
	return fmt.Sprintf("%s %s", nt.Connector, nt)
}
