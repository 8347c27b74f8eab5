package ir

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// decimalCtx is used for every Factor computation. 34 digits is decimal128,
// far beyond any salary times any biennial adjustment.
var decimalCtx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfEven
	return c
}()

// Factor is an exact decimal multiplier such as an economic adjustment.
//
// The zero value is not a valid factor; use One or ParseFactor.
type Factor struct {
	d   apd.Decimal
	set bool
}

// One is the identity factor.
var One = MustParseFactor("1")

// ParseFactor parses a decimal string like "1.0646".
func ParseFactor(s string) (Factor, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Factor{}, fmt.Errorf("parse factor %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Factor{}, fmt.Errorf("parse factor %q: not a finite number", s)
	}
	return Factor{d: *d, set: true}, nil
}

// MustParseFactor is like ParseFactor but panics on error.
// Use only in tests or for constants.
func MustParseFactor(s string) Factor {
	f, err := ParseFactor(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FactorFromFloat converts a configuration float using its shortest decimal
// representation, so 1.0646 becomes exactly 1.0646 and not the nearest
// binary fraction.
func FactorFromFloat(v float64) (Factor, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Factor{}, fmt.Errorf("factor %v is not finite", v)
	}
	return ParseFactor(strconv.FormatFloat(v, 'f', -1, 64))
}

// IsSet reports whether f holds a value.
func (f Factor) IsSet() bool {
	return f.set
}

// IsOne reports whether f equals exactly one ("1", "1.0" and "1.000" all do).
// An unset factor counts as one.
func (f Factor) IsOne() bool {
	if !f.set {
		return true
	}
	return f.d.Cmp(apd.New(1, 0)) == 0
}

// Sign returns -1, 0 or +1.
func (f Factor) Sign() int {
	if !f.set {
		return 1
	}
	return f.d.Sign()
}

// GreaterThanOne reports whether f > 1.
func (f Factor) GreaterThanOne() bool {
	if !f.set {
		return false
	}
	return f.d.Cmp(apd.New(1, 0)) > 0
}

// String renders the factor as written, e.g. "1.0646".
func (f Factor) String() string {
	if !f.set {
		return "1"
	}
	return f.d.Text('f')
}

// MarshalText implements encoding.TextMarshaler.
func (f Factor) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Factor) UnmarshalText(b []byte) error {
	parsed, err := ParseFactor(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Apply multiplies value by f and rounds half-to-even to a whole number.
func (f Factor) Apply(value int64) (int64, error) {
	if f.IsOne() {
		return value, nil
	}
	var product, rounded apd.Decimal
	if _, err := decimalCtx.Mul(&product, apd.New(value, 0), &f.d); err != nil {
		return 0, fmt.Errorf("scale %d by %s: %w", value, f, err)
	}
	if _, err := decimalCtx.RoundToIntegralValue(&rounded, &product); err != nil {
		return 0, fmt.Errorf("round %s: %w", product.String(), err)
	}
	n, err := rounded.Int64()
	if err != nil {
		return 0, fmt.Errorf("scale %d by %s: %w", value, f, err)
	}
	return n, nil
}

// Invert divides value by f, rounding half-to-even. Reports use it to show
// the unadjusted base next to an adjusted amount.
func (f Factor) Invert(value int64) (int64, error) {
	if f.IsOne() {
		return value, nil
	}
	var quo, rounded apd.Decimal
	if _, err := decimalCtx.Quo(&quo, apd.New(value, 0), &f.d); err != nil {
		return 0, fmt.Errorf("invert %d by %s: %w", value, f, err)
	}
	if _, err := decimalCtx.RoundToIntegralValue(&rounded, &quo); err != nil {
		return 0, fmt.Errorf("round %s: %w", quo.String(), err)
	}
	return rounded.Int64()
}
