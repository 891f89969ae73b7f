/*
record.go - Effective-dated pricing records and rate payloads

PURPOSE:
  A PricingRecord binds a Scope to a rate payload over an effective date
  range. Records are administratively authored and never mutated in
  place: a rate change appends a new record and closes the previous
  record's end date.

RATE PAYLOADS:
  ResidencyRate:  domestic/foreign pair (default tuition, fixed courses)
  GroupRate:      one total per group, with a foreign variant
                  (senior-project tiers)
  PerStudentRate: per-student rate with a minimum revenue floor
                  (reading classes)

The payload kinds form a closed set matched exhaustively by the resolver.
*/
package pricing

// =============================================================================
// RATE PAYLOADS
// =============================================================================

type RateKind string

const (
	RateResidency  RateKind = "residency"
	RateGroup      RateKind = "group"
	RatePerStudent RateKind = "per_student"
)

// Rate is the payload of a pricing record.
type Rate interface {
	RateKind() RateKind
}

// ResidencyRate holds parallel domestic and foreign amounts.
type ResidencyRate struct {
	Domestic Money
	Foreign  Money
}

func (r ResidencyRate) RateKind() RateKind { return RateResidency }

// ForResidency selects the column for the given residency.
func (r ResidencyRate) ForResidency(res Residency) Money {
	if res == ResidencyForeign {
		return r.Foreign
	}
	return r.Domestic
}

// GroupRate holds one total for the whole group plus a foreign variant.
type GroupRate struct {
	Total        Money
	ForeignTotal Money
}

func (r GroupRate) RateKind() RateKind { return RateGroup }

func (r GroupRate) ForResidency(res Residency) Money {
	if res == ResidencyForeign {
		return r.ForeignTotal
	}
	return r.Total
}

// PerStudentRate holds a per-student amount with a minimum revenue floor
// for the whole class.
type PerStudentRate struct {
	PerStudent     Money
	MinimumRevenue Money
}

func (r PerStudentRate) RateKind() RateKind { return RatePerStudent }

// TotalCharge returns the class total for the given enrollment count:
// max(count x per-student, minimum revenue).
func (r PerStudentRate) TotalCharge(count int) Money {
	return r.PerStudent.MulInt(count).Max(r.MinimumRevenue)
}

// =============================================================================
// PRICING RECORD
// =============================================================================

// PricingRecord is one effective-dated catalog entry. Immutable once
// superseded.
type PricingRecord struct {
	ID    string
	Scope Scope
	Range EffectiveDateRange
	Rate  Rate
}

// AppliesOn reports whether the record's interval contains the date.
func (r PricingRecord) AppliesOn(d Date) bool {
	return r.Range.Contains(d)
}
