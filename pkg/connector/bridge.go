package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nnnkkk7/typebridge/pkg/wire"
	"github.com/nnnkkk7/typebridge/server/apierror"
	"github.com/nnnkkk7/typebridge/server/types"
)

// maxResponseBytes bounds a single bridge response body.
const maxResponseBytes = 256 << 20

// BridgeBackend reaches an external driver through a bridge host over
// HTTP. Each call is one request; nothing is retried.
type BridgeBackend struct {
	baseURL string
	client  *http.Client
}

// BridgeOption configures a BridgeBackend.
type BridgeOption func(*BridgeBackend)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) BridgeOption {
	return func(b *BridgeBackend) { b.client = c }
}

// NewBridgeBackend creates a backend for the bridge host at baseURL.
func NewBridgeBackend(baseURL string, timeout time.Duration, opts ...BridgeOption) *BridgeBackend {
	b := &BridgeBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BridgeBackend) QueryRaw(ctx context.Context, q Query) (*wire.ResultSet, error) {
	var resp types.QueryRawResponse
	if err := b.post(ctx, types.PathQueryRaw, q, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &wire.ResultSet{}, nil
	}
	return resp.Data, nil
}

func (b *BridgeBackend) ExecuteRaw(ctx context.Context, q Query) (int64, error) {
	var resp types.ExecuteRawResponse
	if err := b.post(ctx, types.PathExecuteRaw, q, &resp); err != nil {
		return 0, err
	}
	if resp.Data == nil {
		return 0, fmt.Errorf("bridge response has no data")
	}
	return resp.Data.RowsAffected, nil
}

// Close releases idle connections to the bridge host.
func (b *BridgeBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// post sends q to path and decodes a successful response into out. A
// failed response is returned as the host's *apierror.BridgeError.
func (b *BridgeBackend) post(ctx context.Context, path string, q Query, out any) error {
	args := q.Args
	if args == nil {
		args = []wire.Value{}
	}
	body, err := json.Marshal(types.RawRequest{SQL: q.SQL, Args: args})
	if err != nil {
		return fmt.Errorf("encode bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(types.RequestIDHeader, uuid.NewString())

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read bridge response: %w", err)
	}

	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("bridge returned %s: invalid response body: %w", resp.Status, err)
	}
	if !env.Success {
		var e apierror.ErrorResponse
		if err := json.Unmarshal(data, &e); err != nil || e.Code == "" {
			return fmt.Errorf("bridge returned %s without an error code", resp.Status)
		}
		return e.Err()
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode bridge response: %w", err)
	}
	return nil
}
