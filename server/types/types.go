// Package types defines the JSON frames exchanged between a bridged
// connector and a bridge host.
package types

import "github.com/nnnkkk7/typebridge/pkg/wire"

// Bridge routes
const (
	PathQueryRaw   = "/v1/query-raw"
	PathExecuteRaw = "/v1/execute-raw"
	PathHealth     = "/health"
)

// RequestIDHeader tags every bridge request. chi's RequestID middleware
// reads the same header.
const RequestIDHeader = "X-Request-Id"

// RawRequest carries one statement and its arguments, already encoded to
// wire values.
type RawRequest struct {
	SQL  string       `json:"sql"`
	Args []wire.Value `json:"args"`
}

// Envelope is the part every response shares. A false Success means the
// body is an apierror.ErrorResponse.
type Envelope struct {
	Success bool `json:"success"`
}

type QueryRawResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    *wire.ResultSet `json:"data,omitempty"`
}

type ExecuteRawResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    *ExecuteRawData `json:"data,omitempty"`
}

type ExecuteRawData struct {
	RowsAffected int64 `json:"rowsAffected"`
}

// HealthResponse reports which driver the bridge host wraps.
type HealthResponse struct {
	Success bool        `json:"success"`
	Data    *HealthData `json:"data,omitempty"`
}

type HealthData struct {
	Driver string `json:"driver"`
}
