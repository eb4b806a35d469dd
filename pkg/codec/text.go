package codec

import (
	"encoding/json"
	"net/netip"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/types"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// jsonbVersion prefixes the binary JSONB wire format.
const jsonbVersion = 0x01

// encodeText passes strings through unchanged. Fixed-width types are not
// padded here; padding is the database's own storage behavior.
func encodeText(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return wire.Value{}, unexpectedValue(nt, v)
	}
	if nt.Length > 0 {
		if n := utf8.RuneCountInString(string(s)); n > nt.Length {
			return wire.Value{}, outOfRange(nt, "%d characters exceed length %d", n, nt.Length)
		}
	}
	return wire.Text(string(s)), nil
}

func decodeText(nt catalog.NativeType, raw any) (value.Value, error) {
	switch x := raw.(type) {
	case string:
		return value.String(x), nil
	case []byte:
		return value.String(x), nil
	case netip.Addr:
		return value.String(x.String()), nil
	case netip.Prefix:
		return value.String(x.String()), nil
	}
	return nil, decodeError(nt, raw, nil, "not text")
}

// encodeBit writes bit strings as text, except on MySQL where BIT columns
// bind as big-endian bytes.
func encodeBit(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	var bits string
	switch x := v.(type) {
	case value.String:
		bits = string(x)
	case value.Bool:
		bits = "0"
		if x {
			bits = "1"
		}
	case value.Bytes:
		if nt.Connector != types.MySQL {
			return wire.Value{}, unexpectedValue(nt, v)
		}
		if limit := (nt.Length + 7) / 8; nt.Length > 0 && len(x) > limit {
			return wire.Value{}, outOfRange(nt, "%d bytes exceed %d bits", len(x), nt.Length)
		}
		return wire.Bytes(x), nil
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}

	if strings.Trim(bits, "01") != "" || bits == "" {
		return wire.Value{}, invalidValue(nt, nil, "%q is not a bit string", bits)
	}
	exact := nt.Family == catalog.FamilyBit && nt.Connector != types.MySQL
	switch {
	case nt.Length > 0 && exact && len(bits) != nt.Length:
		return wire.Value{}, outOfRange(nt, "bit string has %d bits, want exactly %d", len(bits), nt.Length)
	case nt.Length > 0 && len(bits) > nt.Length:
		return wire.Value{}, outOfRange(nt, "bit string has %d bits, limit is %d", len(bits), nt.Length)
	}

	if nt.Connector == types.MySQL {
		u, err := strconv.ParseUint(bits, 2, 64)
		if err != nil {
			return wire.Value{}, outOfRange(nt, "bit string %q exceeds 64 bits", bits)
		}
		return wire.Bytes(packBits(u, nt.Length)), nil
	}
	return wire.Text(bits), nil
}

func packBits(u uint64, length int) []byte {
	n := max((length+7)/8, 1)
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out
}

// decodeBit returns bit strings as text. MySQL BIT(1) decodes to a Boolean.
func decodeBit(nt catalog.NativeType, raw any) (value.Value, error) {
	var u uint64
	switch x := raw.(type) {
	case string:
		return value.String(x), nil
	case []byte:
		if nt.Connector != types.MySQL {
			return value.String(x), nil
		}
		if len(x) > 8 {
			return nil, decodeError(nt, raw, nil, "%d bytes exceed 64 bits", len(x))
		}
		for _, b := range x {
			u = u<<8 | uint64(b)
		}
	case bool:
		if x {
			u = 1
		}
	default:
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			u = uint64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u = rv.Uint()
		default:
			return nil, decodeError(nt, raw, nil, "not a bit string")
		}
	}
	if nt.Connector == types.MySQL && nt.Length == 1 {
		return value.Bool(u != 0), nil
	}
	bits := strconv.FormatUint(u, 2)
	if pad := nt.Length - len(bits); pad > 0 {
		bits = strings.Repeat("0", pad) + bits
	}
	return value.String(bits), nil
}

func encodeUUID(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch x := v.(type) {
	case value.String:
		id, err = uuid.Parse(strings.TrimSpace(string(x)))
	case value.Bytes:
		id, err = uuid.FromBytes(x)
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}
	if err != nil {
		return wire.Value{}, invalidValue(nt, err, "invalid uuid")
	}
	return wire.UUID(id.String()), nil
}

func decodeUUID(nt catalog.NativeType, raw any) (value.Value, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch x := raw.(type) {
	case string:
		id, err = uuid.Parse(x)
	case []byte:
		if len(x) == 16 {
			id, err = uuid.FromBytes(x)
		} else {
			id, err = uuid.ParseBytes(x)
		}
	case uuid.UUID:
		id = x
	case [16]byte:
		id = uuid.UUID(x)
	default:
		return nil, decodeError(nt, raw, nil, "not a uuid")
	}
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid uuid")
	}
	return value.String(id.String()), nil
}

// encodeInet validates an address or CIDR prefix and writes it in
// canonical form.
func encodeInet(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return wire.Value{}, unexpectedValue(nt, v)
	}
	text := strings.TrimSpace(string(s))
	if strings.Contains(text, "/") {
		p, err := netip.ParsePrefix(text)
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid network prefix")
		}
		return wire.Text(p.String()), nil
	}
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return wire.Value{}, invalidValue(nt, err, "invalid address")
	}
	return wire.Text(addr.String()), nil
}

func encodeBool(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	switch x := v.(type) {
	case value.Bool:
		return wire.Boolean(bool(x)), nil
	case value.Int:
		if x == 0 || x == 1 {
			return wire.Boolean(x == 1), nil
		}
		return wire.Value{}, outOfRange(nt, "%d is not 0 or 1", int64(x))
	case value.String:
		b, ok := parseBool(string(x))
		if !ok {
			return wire.Value{}, invalidValue(nt, nil, "invalid boolean literal %q", string(x))
		}
		return wire.Boolean(b), nil
	}
	return wire.Value{}, unexpectedValue(nt, v)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1":
		return true, true
	case "f", "false", "0":
		return false, true
	}
	return false, false
}

func decodeBool(nt catalog.NativeType, raw any) (value.Value, error) {
	switch x := raw.(type) {
	case bool:
		return value.Bool(x), nil
	case string:
		if b, ok := parseBool(x); ok {
			return value.Bool(b), nil
		}
	case []byte:
		if b, ok := parseBool(string(x)); ok {
			return value.Bool(b), nil
		}
	default:
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if i := rv.Int(); i == 0 || i == 1 {
				return value.Bool(i == 1), nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if u := rv.Uint(); u <= 1 {
				return value.Bool(u == 1), nil
			}
		}
	}
	return nil, decodeError(nt, raw, nil, "%v is not a boolean", raw)
}

func encodeBytes(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	b, ok := v.(value.Bytes)
	if !ok {
		return wire.Value{}, unexpectedValue(nt, v)
	}
	if nt.Length > 0 && len(b) > nt.Length {
		return wire.Value{}, outOfRange(nt, "%d bytes exceed length %d", len(b), nt.Length)
	}
	return wire.Bytes(b), nil
}

func decodeBytes(nt catalog.NativeType, raw any) (value.Value, error) {
	switch x := raw.(type) {
	case []byte:
		return value.Bytes(append([]byte{}, x...)), nil
	case string:
		return value.Bytes(x), nil
	}
	return nil, decodeError(nt, raw, nil, "not a byte sequence")
}

// encodeJSON writes JSON text. Json columns keep literal text as written;
// JsonB re-marshals it with sorted keys the way the database normalizes it.
func encodeJSON(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	switch x := v.(type) {
	case value.JSON:
		b, err := json.Marshal(x.V)
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "cannot marshal json")
		}
		return wire.JSON(string(b)), nil
	case value.String:
		doc, err := value.ParseJSON([]byte(x))
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid json literal")
		}
		if nt.Family == catalog.FamilyJSON {
			return wire.JSON(string(x)), nil
		}
		return wire.JSON(doc.String()), nil
	}
	return wire.Value{}, unexpectedValue(nt, v)
}

func decodeJSON(nt catalog.NativeType, raw any) (value.Value, error) {
	var data []byte
	switch x := raw.(type) {
	case string:
		data = []byte(x)
	case []byte:
		data = x
	case json.RawMessage:
		data = x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, decodeError(nt, raw, err, "cannot re-marshal driver json")
		}
		data = b
	default:
		return nil, decodeError(nt, raw, nil, "not a json document")
	}
	if nt.Family == catalog.FamilyJSONB && len(data) > 0 && data[0] == jsonbVersion {
		data = data[1:]
	}
	doc, err := value.ParseJSON(data)
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid json")
	}
	return doc, nil
}
