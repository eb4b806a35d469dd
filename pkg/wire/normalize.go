package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Normalize converts a value scanned from a database/sql driver into the Go
// representation of wire type t, so that native and bridged results carry
// identical cells.
func Normalize(t Type, v any) (any, error) {
	if v == nil || t == TypeNull {
		return nil, nil
	}
	switch t {
	case TypeInt32:
		i, err := toInt64(t, v)
		if err != nil {
			return nil, err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("value %d overflows %s", i, t)
		}
		return int32(i), nil
	case TypeInt64:
		return toInt64(t, v)
	case TypeUint64:
		return toUint64(t, v)
	case TypeFloat32:
		f, err := toFloat64(t, v)
		return float32(f), err
	case TypeFloat64:
		if f, ok := v.(float32); ok {
			return strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
		}
		return toFloat64(t, v)
	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
		return nil, typeError(t, v)
	case TypeBytes:
		switch b := v.(type) {
		case []byte:
			return append([]byte{}, b...), nil
		case string:
			return []byte(b), nil
		}
		return nil, typeError(t, v)
	case TypeDate, TypeTime, TypeDateTime:
		switch ts := v.(type) {
		case time.Time:
			switch t {
			case TypeDate:
				return Date(ts).V, nil
			case TypeTime:
				return Time(ts).V, nil
			default:
				return ts.UTC(), nil
			}
		case string:
			return parseTemporal(t, ts)
		}
		return nil, typeError(t, v)
	case TypeUUID:
		if b, ok := byteArray16(v); ok {
			return uuid.UUID(b).String(), nil
		}
		return toText(t, v)
	case TypeJSON:
		switch v.(type) {
		case map[string]any, []any:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		}
		return toText(t, v)
	case TypeNumeric, TypeText, TypeGeometry:
		return toText(t, v)
	default:
		return nil, fmt.Errorf("unknown wire type %q", t)
	}
}

// NormalizeRow normalizes one scanned row in place.
func NormalizeRow(types []Type, row []any) error {
	for i := range row {
		v, err := Normalize(types[i], row[i])
		if err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		row[i] = v
	}
	return nil
}

func toInt64(t Type, v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows %s", u, t)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v is not a %s", f, t)
		}
		return int64(f), nil
	case reflect.String:
		return strconv.ParseInt(rv.String(), 10, 64)
	case reflect.Slice:
		if b, ok := v.([]byte); ok {
			return strconv.ParseInt(string(b), 10, 64)
		}
	}
	return 0, typeError(t, v)
}

func toUint64(t Type, v any) (uint64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, fmt.Errorf("value %d overflows %s", i, t)
		}
		return uint64(i), nil
	case reflect.String:
		return strconv.ParseUint(rv.String(), 10, 64)
	case reflect.Slice:
		if b, ok := v.([]byte); ok {
			return strconv.ParseUint(string(b), 10, 64)
		}
	}
	return 0, typeError(t, v)
}

func toFloat64(t Type, v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.String:
		return strconv.ParseFloat(rv.String(), 64)
	case reflect.Slice:
		if b, ok := v.([]byte); ok {
			return strconv.ParseFloat(string(b), 64)
		}
	}
	return 0, typeError(t, v)
}

// toText renders strings, byte slices, numbers and Stringers (driver
// decimal and big integer types) as text.
func toText(t Type, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	}
	return "", typeError(t, v)
}

// byteArray16 extracts a 16-byte array of any named type, as drivers return
// UUIDs.
func byteArray16(v any) ([16]byte, bool) {
	var out [16]byte
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Array || rv.Len() != 16 || rv.Type().Elem().Kind() != reflect.Uint8 {
		return out, false
	}
	reflect.Copy(reflect.ValueOf(out[:]), rv)
	return out, true
}
