package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/exp/constraints"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/types"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

const (
	minInt24  = -1 << 23
	maxInt24  = 1<<23 - 1
	maxUint24 = 1<<24 - 1

	minYear = 1901
	maxYear = 2155

	moneyPrecision = 19
	moneyScale     = 2
)

// fits reports whether i survives conversion to T unchanged.
func fits[T constraints.Integer](i int64) bool {
	t := T(i)
	return int64(t) == i && (t < 0) == (i < 0)
}

func checkIntRange(nt catalog.NativeType, i int64) error {
	ok := true
	switch {
	case nt.Width == 8 && nt.Unsigned:
		ok = fits[uint8](i)
	case nt.Width == 8:
		ok = fits[int8](i)
	case nt.Width == 16 && nt.Unsigned:
		ok = fits[uint16](i)
	case nt.Width == 16:
		ok = fits[int16](i)
	case nt.Width == 24 && nt.Unsigned:
		ok = i >= 0 && i <= maxUint24
	case nt.Width == 24:
		ok = i >= minInt24 && i <= maxInt24
	case nt.Width == 32 && nt.Unsigned:
		ok = fits[uint32](i)
	case nt.Width == 32:
		ok = fits[int32](i)
	case nt.Width == 64 && nt.Unsigned:
		ok = fits[uint64](i)
	}
	if !ok {
		return outOfRange(nt, "%d does not fit in %s", i, intRangeName(nt))
	}
	return nil
}

func intRangeName(nt catalog.NativeType) string {
	if nt.Unsigned {
		return fmt.Sprintf("unsigned %d-bit integer", nt.Width)
	}
	return fmt.Sprintf("%d-bit integer", nt.Width)
}

// intWire picks the narrowest wire integer that holds every value of nt.
func intWire(nt catalog.NativeType, i int64) wire.Value {
	if nt.Width <= 24 || (nt.Width == 32 && !nt.Unsigned) {
		return wire.Int32(int32(i))
	}
	return wire.Int64(i)
}

func encodeInt(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	if nt.Width == 64 && nt.Unsigned {
		u, err := unsignedOf(nt, v)
		if err != nil {
			return wire.Value{}, err
		}
		return wire.Uint64(u), nil
	}
	i, err := integerOf(nt, v)
	if err != nil {
		return wire.Value{}, err
	}
	if err := checkIntRange(nt, i); err != nil {
		return wire.Value{}, err
	}
	return intWire(nt, i), nil
}

func encodeYear(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	var year int64
	if dt, ok := v.(value.DateTime); ok {
		year = int64(dt.Time.UTC().Year())
	} else {
		i, err := integerOf(nt, v)
		if err != nil {
			return wire.Value{}, err
		}
		year = i
	}
	if year < minYear || year > maxYear {
		return wire.Value{}, outOfRange(nt, "year %d is outside %d..%d", year, minYear, maxYear)
	}
	return wire.Int32(int32(year)), nil
}

// integerOf accepts Int, Boolean, integral Float and Decimal values and
// integer literals.
func integerOf(nt catalog.NativeType, v value.Value) (int64, error) {
	switch x := v.(type) {
	case value.Int:
		return int64(x), nil
	case value.Bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, invalidValue(nt, nil, "%v is not an integer", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, outOfRange(nt, "%v does not fit in a 64-bit integer", f)
		}
		return int64(f), nil
	case *value.Decimal:
		r, err := integralDecimal(nt, &x.Decimal)
		if err != nil {
			return 0, err
		}
		i, err := r.Int64()
		if err != nil {
			return 0, outOfRange(nt, "%s does not fit in a 64-bit integer", x)
		}
		return i, nil
	case value.String:
		s := strings.TrimSpace(string(x))
		i, err := strconv.ParseInt(s, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange(nt, "%s does not fit in a 64-bit integer", s)
		}
		if err != nil {
			return 0, invalidValue(nt, err, "invalid integer literal %q", s)
		}
		return i, nil
	}
	return 0, unexpectedValue(nt, v)
}

func unsignedOf(nt catalog.NativeType, v value.Value) (uint64, error) {
	var s string
	switch x := v.(type) {
	case *value.Decimal:
		r, err := integralDecimal(nt, &x.Decimal)
		if err != nil {
			return 0, err
		}
		s = r.Text('f')
	case value.String:
		s = strings.TrimSpace(string(x))
	default:
		i, err := integerOf(nt, v)
		if err != nil {
			return 0, err
		}
		if i < 0 {
			return 0, outOfRange(nt, "%d does not fit in %s", i, intRangeName(nt))
		}
		return uint64(i), nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, strconv.ErrRange) || strings.HasPrefix(s, "-") {
		return 0, outOfRange(nt, "%s does not fit in %s", s, intRangeName(nt))
	}
	return 0, invalidValue(nt, err, "invalid integer literal %q", s)
}

func integralDecimal(nt catalog.NativeType, d *apd.Decimal) (*apd.Decimal, error) {
	r := &apd.Decimal{}
	r.Reduce(d)
	if r.Exponent < 0 {
		return nil, invalidValue(nt, nil, "%s is not an integer", d.Text('f'))
	}
	return r, nil
}

func encodeFloat(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	var f float64
	switch x := v.(type) {
	case value.Float:
		f = float64(x)
	case value.Int:
		f = float64(x)
	case *value.Decimal:
		var err error
		if f, err = x.Float64(); err != nil {
			return wire.Value{}, invalidValue(nt, err, "cannot convert %s to a float", x)
		}
	case value.String:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(string(x)), 64); err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid float literal %q", string(x))
		}
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}
	if nt.Width == 32 {
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return wire.Value{}, outOfRange(nt, "%v does not fit in a 32-bit float", f)
		}
		return wire.Float32(float32(f)), nil
	}
	return wire.Float64(f), nil
}

// decimalBounds returns the declared precision and scale; zero precision
// means unconstrained.
func decimalBounds(nt catalog.NativeType) (precision, scale int) {
	if nt.Family == catalog.FamilyMoney {
		return moneyPrecision, moneyScale
	}
	return nt.Precision, nt.Scale
}

func encodeDecimal(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	d := &apd.Decimal{}
	switch x := v.(type) {
	case *value.Decimal:
		d.Set(&x.Decimal)
	case value.Int:
		d.SetInt64(int64(x))
	case value.Float:
		fd, err := value.DecimalFromFloat(float64(x))
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "cannot convert %v to a decimal", float64(x))
		}
		d.Set(&fd.Decimal)
	case value.String:
		s := string(x)
		if nt.Family == catalog.FamilyMoney {
			s = stripMoney(s)
		}
		pd, err := value.ParseDecimal(s)
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid decimal literal %q", string(x))
		}
		d.Set(&pd.Decimal)
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}

	precision, scale := decimalBounds(nt)
	if precision == 0 {
		return wire.Numeric(d.Text('f')), nil
	}
	q := &apd.Decimal{}
	if _, err := value.HighPrecisionCtx.Quantize(q, d, -int32(scale)); err != nil {
		return wire.Value{}, outOfRange(nt, "%s cannot be held at scale %d", d.Text('f'), scale)
	}
	if digits := q.NumDigits(); digits > int64(precision) {
		return wire.Value{}, outOfRange(nt, "%s has %d digits, precision is %d", q.Text('f'), digits, precision)
	}
	return wire.Numeric(q.Text('f')), nil
}

// stripMoney removes currency symbols, grouping separators and accounting
// parentheses from a money literal.
func stripMoney(s string) string {
	var b strings.Builder
	neg := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-', r == '(':
			neg = true
		}
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// decodeInt decodes an integer column. Integer columns backing a Boolean
// field, such as MySQL's TinyInt, decode to value.Bool.
func decodeInt(nt catalog.NativeType, raw any) (value.Value, error) {
	v, err := decodeInteger(nt, raw)
	if err != nil || nt.Logical != types.TypeBoolean {
		return v, err
	}
	switch x := v.(type) {
	case value.Int:
		return value.Bool(x != 0), nil
	case *value.Decimal:
		return value.Bool(!x.IsZero()), nil
	}
	return v, nil
}

func decodeInteger(nt catalog.NativeType, raw any) (value.Value, error) {
	switch x := raw.(type) {
	case bool:
		if x {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return nil, decodeError(nt, raw, nil, "%v is not a 64-bit integer", x)
		}
		return value.Int(int64(x)), nil
	case time.Time:
		if nt.Family == catalog.FamilyYear {
			return value.Int(int64(x.UTC().Year())), nil
		}
	case []byte:
		return decodeIntText(nt, raw, string(x))
	case string:
		return decodeIntText(nt, raw, x)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return uintDecimal(u), nil
		}
		return value.Int(int64(u)), nil
	}
	return nil, decodeError(nt, raw, nil, "not an integer")
}

func decodeIntText(nt catalog.NativeType, raw any, s string) (value.Value, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid integer text %q", s)
	}
	return uintDecimal(u), nil
}

// uintDecimal holds unsigned 64-bit values beyond the Int range.
func uintDecimal(u uint64) *value.Decimal {
	d := &value.Decimal{}
	d.Coeff.SetUint64(u)
	return d
}

func decodeFloat(nt catalog.NativeType, raw any) (value.Value, error) {
	switch x := raw.(type) {
	case float64:
		return value.Float(x), nil
	case float32:
		return value.Float(widenFloat32(x)), nil
	case []byte:
		return decodeFloatText(nt, raw, string(x))
	case string:
		return decodeFloatText(nt, raw, x)
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Float(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Float(float64(rv.Uint())), nil
	}
	return nil, decodeError(nt, raw, nil, "not a float")
}

func decodeFloatText(nt catalog.NativeType, raw any, s string) (value.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid float text %q", s)
	}
	return value.Float(f), nil
}

// widenFloat32 returns the float64 with the shortest decimal form of f, so
// 1.1f widens to 1.1 rather than 1.100000023841858.
func widenFloat32(f float32) float64 {
	w, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return w
}

func decodeDecimal(nt catalog.NativeType, raw any) (value.Value, error) {
	d, err := driverDecimal(nt, raw)
	if err != nil {
		return nil, err
	}
	out := &value.Decimal{}
	out.Set(d)
	if nt.Logical.IsInteger() {
		return integralValue(nt, raw, out)
	}

	precision, scale := decimalBounds(nt)
	target := -int32(scale)
	if precision == 0 || d.Exponent >= target {
		return out, nil
	}
	// Trim trailing zeros past the declared scale; significant digits the
	// driver reported are kept.
	reduced := &apd.Decimal{}
	reduced.Reduce(d)
	if _, err := value.HighPrecisionCtx.Quantize(&out.Decimal, d, min(reduced.Exponent, target)); err != nil {
		return nil, decodeError(nt, raw, err, "cannot rescale %s", d.Text('f'))
	}
	return out, nil
}

// integralValue narrows a decimal read for an Int or BigInt field, such as
// Snowflake's Number(38, 0), to value.Int.
func integralValue(nt catalog.NativeType, raw any, d *value.Decimal) (value.Value, error) {
	var whole apd.Decimal
	if _, err := value.HighPrecisionCtx.RoundToIntegralExact(&whole, &d.Decimal); err != nil || whole.Cmp(&d.Decimal) != 0 {
		return nil, decodeError(nt, raw, err, "%s is not an integer", d)
	}
	i, err := whole.Int64()
	if err != nil {
		return nil, decodeError(nt, raw, err, "%s exceeds the 64-bit integer range", d)
	}
	return value.Int(i), nil
}

func driverDecimal(nt catalog.NativeType, raw any) (*apd.Decimal, error) {
	switch x := raw.(type) {
	case *apd.Decimal:
		return x, nil
	case apd.Decimal:
		return &x, nil
	case *big.Int:
		return apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(x), 0), nil
	case float64:
		d, err := value.DecimalFromFloat(x)
		if err != nil {
			return nil, decodeError(nt, raw, err, "not a finite number")
		}
		return &d.Decimal, nil
	case float32:
		d, err := value.DecimalFromFloat(widenFloat32(x))
		if err != nil {
			return nil, decodeError(nt, raw, err, "not a finite number")
		}
		return &d.Decimal, nil
	case []byte:
		return decimalText(nt, raw, string(x))
	case string:
		return decimalText(nt, raw, x)
	case fmt.Stringer:
		return decimalText(nt, raw, x.String())
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return apd.New(rv.Int(), 0), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &uintDecimal(rv.Uint()).Decimal, nil
	}
	return nil, decodeError(nt, raw, nil, "not a decimal")
}

func decimalText(nt catalog.NativeType, raw any, s string) (*apd.Decimal, error) {
	if nt.Family == catalog.FamilyMoney {
		s = stripMoney(s)
	}
	d, err := value.ParseDecimal(s)
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid decimal text %q", s)
	}
	return &d.Decimal, nil
}
