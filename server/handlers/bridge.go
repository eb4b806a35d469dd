// Package handlers provides the HTTP handlers of a bridge host: a process
// that wraps a database/sql driver and serves raw statements to bridged
// connectors.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nnnkkk7/typebridge/pkg/connection"
	"github.com/nnnkkk7/typebridge/server/apierror"
	"github.com/nnnkkk7/typebridge/server/types"
)

// maxRequestBytes bounds a single request frame.
const maxRequestBytes = 64 << 20

// BridgeHandler serves raw statements against one database handle.
type BridgeHandler struct {
	mgr    *connection.Manager
	driver string
}

// NewBridgeHandler creates a bridge handler. driver names the wrapped
// driver in health responses.
func NewBridgeHandler(mgr *connection.Manager, driver string) *BridgeHandler {
	return &BridgeHandler{mgr: mgr, driver: driver}
}

// QueryRaw handles POST /v1/query-raw.
func (h *BridgeHandler) QueryRaw(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRawRequest(w, r)
	if !ok {
		return
	}

	rs, err := h.mgr.Query(r.Context(), req.SQL, req.Args)
	if err != nil {
		sendError(w, http.StatusOK, statementError(err))
		return
	}

	// Marshal before writing so a cell that cannot be framed still yields
	// an error response.
	body, err := json.Marshal(types.QueryRawResponse{Success: true, Data: rs})
	if err != nil {
		sendError(w, http.StatusInternalServerError,
			apierror.WrapError(apierror.CodeResultEncoding, "Failed to encode result", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ExecuteRaw handles POST /v1/execute-raw.
func (h *BridgeHandler) ExecuteRaw(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRawRequest(w, r)
	if !ok {
		return
	}

	n, err := h.mgr.Exec(r.Context(), req.SQL, req.Args)
	if err != nil {
		sendError(w, http.StatusOK, statementError(err))
		return
	}

	sendJSON(w, http.StatusOK, types.ExecuteRawResponse{
		Success: true,
		Data:    &types.ExecuteRawData{RowsAffected: n},
	})
}

// Health handles GET /health.
func (h *BridgeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.DB().PingContext(r.Context()); err != nil {
		sendError(w, http.StatusServiceUnavailable,
			apierror.WrapError(apierror.CodeInternalError, "Database unavailable", err))
		return
	}
	sendJSON(w, http.StatusOK, types.HealthResponse{
		Success: true,
		Data:    &types.HealthData{Driver: h.driver},
	})
}

// NotFound answers unknown routes with a coded error.
func (h *BridgeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	sendError(w, http.StatusNotFound,
		apierror.NewBridgeError(apierror.CodeUnknownRoute, "No route for "+r.Method+" "+r.URL.Path))
}

func decodeRawRequest(w http.ResponseWriter, r *http.Request) (*types.RawRequest, bool) {
	var req types.RawRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		reason := "malformed request body"
		if errors.As(err, &tooLarge) {
			reason = "request body too large"
		}
		sendError(w, http.StatusBadRequest,
			apierror.NewInvalidRequestError(reason).WithData("originalError", err.Error()))
		return nil, false
	}
	if strings.TrimSpace(req.SQL) == "" {
		sendError(w, http.StatusBadRequest, apierror.NewInvalidRequestError("sql is required"))
		return nil, false
	}
	return &req, true
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, status int, err *apierror.BridgeError) {
	sendJSON(w, status, err.ToResponse())
}
