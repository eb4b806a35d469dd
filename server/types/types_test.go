package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nnnkkk7/typebridge/pkg/wire"
)

func TestRawRequestJSON(t *testing.T) {
	input := `{
		"sql": "INSERT INTO t VALUES (?, ?, ?)",
		"args": [
			{"type": "int64", "value": "9007199254740993"},
			{"type": "datetime", "value": "2024-01-01T00:00:00Z"},
			{"type": "null", "value": null}
		]
	}`

	var req RawRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		t.Fatalf("Failed to unmarshal RawRequest: %v", err)
	}

	want := RawRequest{
		SQL: "INSERT INTO t VALUES (?, ?, ?)",
		Args: []wire.Value{
			wire.Int64(9007199254740993),
			wire.DateTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wire.Null,
		},
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("RawRequest mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryRawResponseJSON(t *testing.T) {
	resp := QueryRawResponse{
		Success: true,
		Data: &wire.ResultSet{
			Columns:     []string{"id", "price"},
			ColumnTypes: []wire.Type{wire.TypeInt32, wire.TypeNumeric},
			Rows:        [][]any{{int32(1), "3.10"}},
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal QueryRawResponse: %v", err)
	}

	want := `{"success":true,"data":{"columnNames":["id","price"],"columnTypes":["int32","numeric"],"rows":[[1,"3.10"]]}}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("QueryRawResponse JSON mismatch (-want +got):\n%s", diff)
	}

	var decoded QueryRawResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal QueryRawResponse: %v", err)
	}
	if diff := cmp.Diff(resp, decoded); diff != "" {
		t.Errorf("QueryRawResponse round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteRawResponseJSON(t *testing.T) {
	input := `{"success": true, "data": {"rowsAffected": 3}}`

	var resp ExecuteRawResponse
	if err := json.Unmarshal([]byte(input), &resp); err != nil {
		t.Fatalf("Failed to unmarshal ExecuteRawResponse: %v", err)
	}
	if !resp.Success {
		t.Error("Expected Success=true")
	}
	if resp.Data == nil || resp.Data.RowsAffected != 3 {
		t.Errorf("Expected RowsAffected=3, got %+v", resp.Data)
	}
}

func TestEnvelopeJSON(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"success":false,"code":"SYNTAX_ERROR","message":"x"}`), &env); err != nil {
		t.Fatalf("Failed to unmarshal Envelope: %v", err)
	}
	if env.Success {
		t.Error("Expected Success=false")
	}
}
