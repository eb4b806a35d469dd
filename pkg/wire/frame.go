package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05.999999999"
	dateTimeLayout = time.RFC3339Nano
)

type valueFrame struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes v as {"type": ..., "value": ...}. 64-bit integers,
// floats and decimals travel as strings so no precision is lost.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte(`{"type":"null","value":null}`), nil
	}
	cell, err := EncodeCell(v.Type, v.V)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(cell)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueFrame{Type: v.Type, Value: raw})
}

// UnmarshalJSON decodes a frame written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f valueFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Type == "" {
		return fmt.Errorf("wire value frame has no type")
	}
	cell, err := DecodeCell(f.Type, f.Value)
	if err != nil {
		return err
	}
	if cell == nil {
		*v = Null
		return nil
	}
	*v = Value{Type: f.Type, V: cell}
	return nil
}

// EncodeCell returns the JSON-ready form of a Go value of type t.
func EncodeCell(t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeNull:
		return nil, nil
	case TypeInt32:
		i, ok := v.(int32)
		if !ok {
			return nil, typeError(t, v)
		}
		return i, nil
	case TypeInt64:
		i, ok := v.(int64)
		if !ok {
			return nil, typeError(t, v)
		}
		return strconv.FormatInt(i, 10), nil
	case TypeUint64:
		i, ok := v.(uint64)
		if !ok {
			return nil, typeError(t, v)
		}
		return strconv.FormatUint(i, 10), nil
	case TypeFloat32:
		f, ok := v.(float32)
		if !ok {
			return nil, typeError(t, v)
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case TypeFloat64:
		f, ok := v.(float64)
		if !ok {
			return nil, typeError(t, v)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, typeError(t, v)
		}
		return b, nil
	case TypeBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, typeError(t, v)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	case TypeDate, TypeTime, TypeDateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, typeError(t, v)
		}
		return ts.UTC().Format(layoutFor(t)), nil
	case TypeNumeric, TypeText, TypeJSON, TypeUUID, TypeGeometry:
		s, ok := v.(string)
		if !ok {
			return nil, typeError(t, v)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown wire type %q", t)
	}
}

// DecodeCell is the inverse of EncodeCell.
func DecodeCell(t Type, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" || t == TypeNull {
		return nil, nil
	}
	switch t {
	case TypeInt32:
		var i int32
		if err := json.Unmarshal(raw, &i); err != nil {
			return nil, fmt.Errorf("decode %s cell: %w", t, err)
		}
		return i, nil
	case TypeBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode %s cell: %w", t, err)
		}
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode %s cell: %w", t, err)
	}
	switch t {
	case TypeInt64:
		return parseCell(t, s, func(s string) (any, error) { return strconv.ParseInt(s, 10, 64) })
	case TypeUint64:
		return parseCell(t, s, func(s string) (any, error) { return strconv.ParseUint(s, 10, 64) })
	case TypeFloat32:
		return parseCell(t, s, func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		})
	case TypeFloat64:
		return parseCell(t, s, func(s string) (any, error) { return strconv.ParseFloat(s, 64) })
	case TypeBytes:
		return parseCell(t, s, func(s string) (any, error) { return base64.StdEncoding.DecodeString(s) })
	case TypeDate, TypeTime, TypeDateTime:
		return parseCell(t, s, func(s string) (any, error) { return parseTemporal(t, s) })
	case TypeNumeric, TypeText, TypeJSON, TypeUUID, TypeGeometry:
		return s, nil
	default:
		return nil, fmt.Errorf("unknown wire type %q", t)
	}
}

func parseCell(t Type, s string, parse func(string) (any, error)) (any, error) {
	v, err := parse(s)
	if err != nil {
		return nil, fmt.Errorf("decode %s cell %q: %w", t, s, err)
	}
	return v, nil
}

func parseTemporal(t Type, s string) (time.Time, error) {
	ts, err := time.Parse(layoutFor(t), s)
	if err != nil {
		return time.Time{}, err
	}
	if t == TypeTime {
		return time.Date(1970, 1, 1, ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC), nil
	}
	return ts.UTC(), nil
}

func layoutFor(t Type) string {
	switch t {
	case TypeDate:
		return dateLayout
	case TypeTime:
		return timeLayout
	default:
		return dateTimeLayout
	}
}

func typeError(t Type, v any) error {
	return fmt.Errorf("wire type %s cannot hold %T", t, v)
}
