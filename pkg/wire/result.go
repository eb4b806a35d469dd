package wire

import (
	"encoding/json"
	"fmt"
)

// ResultSet is the raw outcome of a query: column names, their wire types
// and the rows, each cell holding the Go representation of its column's
// type (see Value).
type ResultSet struct {
	Columns     []string
	ColumnTypes []Type
	Rows        [][]any
}

type resultFrame struct {
	ColumnNames []string            `json:"columnNames"`
	ColumnTypes []Type              `json:"columnTypes"`
	Rows        [][]json.RawMessage `json:"rows"`
}

// MarshalJSON encodes the result as {columnNames, columnTypes, rows}.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	frame := resultFrame{
		ColumnNames: nonNil(rs.Columns),
		ColumnTypes: nonNil(rs.ColumnTypes),
		Rows:        make([][]json.RawMessage, 0, len(rs.Rows)),
	}
	for r, row := range rs.Rows {
		if len(row) != len(rs.ColumnTypes) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), len(rs.ColumnTypes))
		}
		cells := make([]json.RawMessage, len(row))
		for i, v := range row {
			cell, err := EncodeCell(rs.ColumnTypes[i], v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, rs.Columns[i], err)
			}
			raw, err := json.Marshal(cell)
			if err != nil {
				return nil, err
			}
			cells[i] = raw
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return json.Marshal(frame)
}

// UnmarshalJSON decodes a frame written by MarshalJSON.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var frame resultFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	if len(frame.ColumnNames) != len(frame.ColumnTypes) {
		return fmt.Errorf("result frame has %d column names and %d column types", len(frame.ColumnNames), len(frame.ColumnTypes))
	}
	out := ResultSet{Columns: frame.ColumnNames, ColumnTypes: frame.ColumnTypes}
	for r, cells := range frame.Rows {
		if len(cells) != len(frame.ColumnTypes) {
			return fmt.Errorf("row %d has %d cells, want %d", r, len(cells), len(frame.ColumnTypes))
		}
		row := make([]any, len(cells))
		for i, raw := range cells {
			v, err := DecodeCell(frame.ColumnTypes[i], raw)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", r, frame.ColumnNames[i], err)
			}
			row[i] = v
		}
		out.Rows = append(out.Rows, row)
	}
	*rs = out
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
