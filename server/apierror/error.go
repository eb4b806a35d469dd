// Package apierror defines the coded errors a bridge host returns and their
// JSON response shape.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Bridge error codes
const (
	// Request errors
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnknownRoute   = "UNKNOWN_ROUTE"

	// Statement errors reported by the hosted driver
	CodeSyntaxError     = "SYNTAX_ERROR"
	CodeObjectNotFound  = "OBJECT_NOT_FOUND"
	CodeConstraint      = "CONSTRAINT_VIOLATION"
	CodeDataException   = "DATA_EXCEPTION"
	CodeStatementFailed = "STATEMENT_FAILED"

	// Host errors
	CodeResultEncoding = "RESULT_ENCODING"
	CodeInternalError  = "INTERNAL_ERROR"
)

// SQLState represents SQL standard error states.
const (
	SQLStateSuccess          = "00000"
	SQLStateNoData           = "02000"
	SQLStateDataException    = "22000"
	SQLStateConstraint       = "23000"
	SQLStateSyntaxError      = "42000"
	SQLStateObjectNotFound   = "42S02"
	SQLStateGeneralError     = "HY000"
	SQLStateInvalidParameter = "HY009"
)

// GetSQLState returns the SQL state for a given error code
func GetSQLState(code string) string {
	mapping := map[string]string{
		CodeInvalidRequest: SQLStateInvalidParameter,
		CodeSyntaxError:    SQLStateSyntaxError,
		CodeObjectNotFound: SQLStateObjectNotFound,
		CodeConstraint:     SQLStateConstraint,
		CodeDataException:  SQLStateDataException,
	}

	if state, ok := mapping[code]; ok {
		return state
	}
	return SQLStateGeneralError
}

// BridgeError is an error reported by a bridge host.
type BridgeError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	SQLState string         `json:"sqlState,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *BridgeError) MarshalJSON() ([]byte, error) {
	type Alias BridgeError
	return json.Marshal(&struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	})
}

// WithData adds data to the error.
func (e *BridgeError) WithData(key string, value any) *BridgeError {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// Is checks if this error matches another error by code.
func (e *BridgeError) Is(target error) bool {
	var bErr *BridgeError
	if errors.As(target, &bErr) {
		return e.Code == bErr.Code
	}
	return false
}

// ErrorResponse is the JSON body of every failed bridge request.
type ErrorResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Code     string         `json:"code"`
	SQLState string         `json:"sqlState,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// ToResponse converts the BridgeError to an ErrorResponse.
func (e *BridgeError) ToResponse() *ErrorResponse {
	data := make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		data[k] = v
	}

	return &ErrorResponse{
		Success:  false,
		Message:  e.Message,
		Code:     e.Code,
		SQLState: e.SQLState,
		Data:     data,
	}
}

// Err converts a decoded response back into a BridgeError.
func (r *ErrorResponse) Err() *BridgeError {
	return &BridgeError{
		Code:     r.Code,
		Message:  r.Message,
		SQLState: r.SQLState,
		Data:     r.Data,
	}
}

// NewBridgeError creates a new BridgeError with the given code and message.
func NewBridgeError(code, message string) *BridgeError {
	return &BridgeError{
		Code:     code,
		Message:  message,
		SQLState: GetSQLState(code),
		Data:     make(map[string]any),
	}
}

// NewInvalidRequestError creates an error for a malformed request frame.
func NewInvalidRequestError(reason string) *BridgeError {
	return NewBridgeError(CodeInvalidRequest, "Invalid request: "+reason)
}

// NewStatementError creates an error for a statement the hosted driver
// rejected. sqlState overrides the code's default state when set.
func NewStatementError(code, sqlState, message string) *BridgeError {
	e := NewBridgeError(code, message)
	if sqlState != "" {
		e.SQLState = sqlState
	}
	return e
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *BridgeError {
	return NewBridgeError(CodeInternalError, message)
}

// WrapError wraps a standard Go error into a BridgeError.
func WrapError(code, message string, err error) *BridgeError {
	return &BridgeError{
		Code:     code,
		Message:  message,
		SQLState: GetSQLState(code),
		Data: map[string]any{
			"originalError": err.Error(),
		},
	}
}

// FromError converts a standard error to a BridgeError.
// If the error is already a BridgeError, it returns it as-is.
// If the error is nil, it returns nil.
// Otherwise, it wraps it as an internal error.
func FromError(err error) *BridgeError {
	if err == nil {
		return nil
	}

	var bErr *BridgeError
	if errors.As(err, &bErr) {
		return bErr
	}

	return NewInternalError(err.Error())
}
