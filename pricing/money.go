/*
Package pricing provides the core tuition pricing engine.

PURPOSE:
  This package contains the types and algorithms for resolving what a
  student should have been charged for a term's enrollments under the
  pricing rules that were historically in effect: an effective-dated
  rate catalog, an enrollment classifier, a group price resolver, and
  a tier matcher for ambiguous group-size pricing.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A fixed-point monetary amount with two fraction digits

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Single currency: No conversion; all amounts are in one currency
  3. Totality: Resolution never panics or raises; every failure mode is
     a valid, explainable, low-confidence result

SEE ALSO:
  - catalog.go: Effective-dated rate lookup
  - classify.go: Enrollment -> PriceType classification
  - resolver.go: Group pricing
  - tiers.go: Payment-driven tier disambiguation
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point amount, two fraction digits
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value).Round(2)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money {
	return Money{Value: decimal.Zero}
}

// ParseMoney parses a decimal string like "250.00". Malformed input
// returns zero and false so callers can coerce with a warning instead
// of failing the record.
func ParseMoney(s string) (Money, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney(), false
	}
	return Money{Value: d.Round(2)}, true
}

func (m Money) Add(b Money) Money          { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money          { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) DivInt(n int) Money         { return Money{Value: m.Value.Div(decimal.NewFromInt(int64(n))).Round(2)} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) Abs() Money                 { return Money{Value: m.Value.Abs()} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) Equal(b Money) bool         { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool   { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool      { return m.Value.LessThan(b.Value) }
func (m Money) Max(b Money) Money          { if m.GreaterThan(b) { return m }; return b }

// WithinTolerance reports whether |m - b| <= tol.
func (m Money) WithinTolerance(b, tol Money) bool {
	return !m.Sub(b).Abs().GreaterThan(tol)
}

// PctOf returns m as a percentage of base (m / base * 100) rounded to
// two fraction digits. Base must be nonzero; callers guard.
func (m Money) PctOf(base Money) decimal.Decimal {
	return m.Value.Div(base.Value).Mul(decimal.NewFromInt(100)).Round(2)
}

func (m Money) String() string {
	return m.Value.StringFixed(2)
}
