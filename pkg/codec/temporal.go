package codec

import (
	"time"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

var digitUnits = [...]int{1e9, 1e8, 1e7, 1e6, 1e5, 1e4, 1e3, 1e2, 1e1, 1}

// truncateDigits drops fractional seconds beyond digits. It never rounds.
func truncateDigits(t time.Time, digits int) time.Time {
	if digits < 0 || digits >= len(digitUnits)-1 {
		return t
	}
	unit := digitUnits[digits]
	return t.Add(-time.Duration(t.Nanosecond() % unit))
}

func encodeTemporal(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	var t time.Time
	switch x := v.(type) {
	case value.DateTime:
		t = x.Time
	case value.String:
		dt, err := value.ParseDateTime(string(x))
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid datetime literal")
		}
		t = dt.Time
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}

	t = t.UTC()
	switch nt.Family {
	case catalog.FamilyDate:
		return wire.Date(t), nil
	case catalog.FamilyTime, catalog.FamilyTimeTZ:
		return wire.Time(truncateDigits(t, nt.Digits)), nil
	default:
		return wire.DateTime(truncateDigits(t, nt.Digits)), nil
	}
}

// decodeTemporal reads driver instants as UTC. Offset-naive values are taken
// as UTC wall-clock time, matching a column that stores no offset.
func decodeTemporal(nt catalog.NativeType, raw any) (value.Value, error) {
	var t time.Time
	switch x := raw.(type) {
	case time.Time:
		t = x
	case string:
		dt, err := value.ParseDateTime(x)
		if err != nil {
			return nil, decodeError(nt, raw, err, "invalid datetime text")
		}
		t = dt.Time
	case []byte:
		dt, err := value.ParseDateTime(string(x))
		if err != nil {
			return nil, decodeError(nt, raw, err, "invalid datetime text")
		}
		t = dt.Time
	default:
		return nil, decodeError(nt, raw, nil, "not a datetime")
	}

	var w wire.Value
	switch nt.Family {
	case catalog.FamilyDate:
		w = wire.Date(t)
	case catalog.FamilyTime, catalog.FamilyTimeTZ:
		w = wire.Time(t)
	default:
		w = wire.DateTime(t)
	}
	return value.NewDateTime(w.V.(time.Time)), nil
}
