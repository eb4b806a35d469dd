package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBridgeError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BridgeError
		expected string
	}{
		{
			name: "SimpleError",
			err: &BridgeError{
				Code:     CodeSyntaxError,
				Message:  "syntax error at or near \"FORM\"",
				SQLState: SQLStateSyntaxError,
			},
			expected: "[SYNTAX_ERROR] syntax error at or near \"FORM\"",
		},
		{
			name: "ErrorWithDetails",
			err: &BridgeError{
				Code:    CodeObjectNotFound,
				Message: "Table with name users does not exist",
				Data:    map[string]any{"table": "users"},
			},
			expected: "[OBJECT_NOT_FOUND] Table with name users does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, tt.err.Error()); diff != "" {
				t.Errorf("Error() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBridgeError_MarshalJSON(t *testing.T) {
	err := &BridgeError{
		Code:     CodeDataException,
		Message:  "Conversion Error",
		SQLState: SQLStateDataException,
		Data:     map[string]any{"key": "value"},
	}

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal() error = %v", marshalErr)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := map[string]any{
		"code":     "DATA_EXCEPTION",
		"message":  "Conversion Error",
		"sqlState": "22000",
		"data":     map[string]any{"key": "value"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarshalJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name         string
		err          *BridgeError
		expectedCode string
		expectedMsg  string
		expectedSQL  string
	}{
		{
			name:         "InvalidRequest",
			err:          NewInvalidRequestError("sql is required"),
			expectedCode: CodeInvalidRequest,
			expectedMsg:  "Invalid request: sql is required",
			expectedSQL:  SQLStateInvalidParameter,
		},
		{
			name:         "StatementDefaultState",
			err:          NewStatementError(CodeConstraint, "", "duplicate key"),
			expectedCode: CodeConstraint,
			expectedMsg:  "duplicate key",
			expectedSQL:  SQLStateConstraint,
		},
		{
			name:         "StatementDriverState",
			err:          NewStatementError(CodeStatementFailed, "22012", "division by zero"),
			expectedCode: CodeStatementFailed,
			expectedMsg:  "division by zero",
			expectedSQL:  "22012",
		},
		{
			name:         "InternalError",
			err:          NewInternalError("Unexpected condition"),
			expectedCode: CodeInternalError,
			expectedMsg:  "Unexpected condition",
			expectedSQL:  SQLStateGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.expectedCode {
				t.Errorf("Expected code %s, got %s", tt.expectedCode, tt.err.Code)
			}
			if tt.err.Message != tt.expectedMsg {
				t.Errorf("Expected message %q, got %q", tt.expectedMsg, tt.err.Message)
			}
			if tt.err.SQLState != tt.expectedSQL {
				t.Errorf("Expected SQLState %q, got %q", tt.expectedSQL, tt.err.SQLState)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	originalErr := errors.New("database connection failed")

	wrapped := WrapError(CodeInternalError, "Failed to connect", originalErr)

	if wrapped.Code != CodeInternalError {
		t.Errorf("Expected code %s, got %s", CodeInternalError, wrapped.Code)
	}
	originalErrStr, ok := wrapped.Data["originalError"].(string)
	if !ok {
		t.Fatal("Expected originalError in Data")
	}
	if originalErrStr != originalErr.Error() {
		t.Errorf("Expected originalError %q, got %q", originalErr.Error(), originalErrStr)
	}
}

func TestBridgeError_WithData(t *testing.T) {
	err := &BridgeError{Code: CodeInvalidRequest}

	err.WithData("field", "args").WithData("index", 3)

	want := map[string]any{"field": "args", "index": 3}
	if diff := cmp.Diff(want, err.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{
			name:         "NilError",
			err:          nil,
			expectedCode: "",
		},
		{
			name:         "StandardError",
			err:          errors.New("something went wrong"),
			expectedCode: CodeInternalError,
		},
		{
			name:         "BridgeError",
			err:          NewInvalidRequestError("bad frame"),
			expectedCode: CodeInvalidRequest,
		},
		{
			name:         "WrappedBridgeError",
			err:          fmt.Errorf("handler: %w", NewStatementError(CodeSyntaxError, "", "bad")),
			expectedCode: CodeSyntaxError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromError(tt.err)

			if tt.err == nil {
				if result != nil {
					t.Error("Expected nil for nil input")
				}
				return
			}
			if result == nil {
				t.Fatal("Expected non-nil result")
			}
			if result.Code != tt.expectedCode {
				t.Errorf("Expected code %s, got %s", tt.expectedCode, result.Code)
			}
		})
	}
}

func TestBridgeError_Is(t *testing.T) {
	err1 := NewInvalidRequestError("missing sql")
	err2 := NewInvalidRequestError("different message")
	err3 := NewInternalError("boom")

	if !errors.Is(err1, err2) {
		t.Error("Expected errors with same code to match")
	}
	if errors.Is(err1, err3) {
		t.Error("Expected errors with different codes not to match")
	}
	if err1.Is(errors.New("standard error")) {
		t.Error("Expected BridgeError not to match standard error")
	}
}

func TestErrorResponse_RoundTrip(t *testing.T) {
	err := &BridgeError{
		Code:     CodeSyntaxError,
		Message:  "Parser Error: syntax error at end of input",
		SQLState: SQLStateSyntaxError,
		Data:     map[string]any{"requestId": "abc"},
	}

	body, marshalErr := json.Marshal(err.ToResponse())
	if marshalErr != nil {
		t.Fatalf("Marshal() error = %v", marshalErr)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Success {
		t.Error("Expected success to be false")
	}
	if diff := cmp.Diff(err, resp.Err()); diff != "" {
		t.Errorf("Err() mismatch (-want +got):\n%s", diff)
	}
}
