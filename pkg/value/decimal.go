package value

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// HighPrecisionCtx bounds decimal parsing: exponents and precision are
// limited to 2000 and any inexact conversion is an error.
var HighPrecisionCtx = &apd.Context{
	Precision:   2000,
	MaxExponent: 2000,
	MinExponent: -2000,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundHalfUp,
}

// Decimal is an exact decimal value. Its scale is the negated exponent.
type Decimal struct {
	apd.Decimal
}

// Kind implements Value.
func (*Decimal) Kind() Kind { return KindDecimal }

// String returns the decimal in plain notation, keeping trailing zeros.
func (d *Decimal) String() string { return d.Decimal.Text('f') }

// Scale returns the number of digits after the decimal point.
func (d *Decimal) Scale() int {
	if d.Exponent >= 0 {
		return 0
	}
	return int(-d.Exponent)
}

// Equal reports whether d and o have the same value and scale.
func (d *Decimal) Equal(o *Decimal) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Exponent == o.Exponent && d.Cmp(&o.Decimal) == 0
}

// ParseDecimal parses a finite decimal literal.
func ParseDecimal(s string) (*Decimal, error) {
	d := &Decimal{}
	_, res, err := HighPrecisionCtx.SetString(&d.Decimal, strings.TrimSpace(s))
	if err != nil || res.Inexact() {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("invalid decimal %q: not a finite number", s)
	}
	return d, nil
}

// MustDecimal is like ParseDecimal but panics on error.
func MustDecimal(s string) *Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFromInt returns the integral decimal i.
func DecimalFromInt(i int64) *Decimal {
	d := &Decimal{}
	d.SetInt64(i)
	return d
}

// DecimalFromFloat returns the shortest decimal that reads back as f.
func DecimalFromFloat(f float64) (*Decimal, error) {
	d := &Decimal{}
	if _, err := d.SetFloat64(f); err != nil {
		return nil, err
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("invalid decimal %v: not a finite number", f)
	}
	return d, nil
}
