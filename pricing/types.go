/*
types.go - External inputs and resolution results

PURPOSE:
  Declares the read-only input records the engine consumes (Enrollment,
  Payment) and the result types it produces. Enrollments and payments
  are owned by upstream systems; the engine never mutates them and
  holds no state between runs.

KEY CONCEPTS:
  - PriceType: closed classification of an enrollment's pricing category
  - PriceDeterminationResult: one priced group with confidence and notes
  - Confidence: 0-100; 0 means "could not price, see notes", 100 means
    "unambiguous catalog hit"
*/
package pricing

// =============================================================================
// EXTERNAL INPUTS (read-only)
// =============================================================================

type AttendanceStatus string

const (
	AttendanceActive  AttendanceStatus = "active"
	AttendanceDropped AttendanceStatus = "dropped"
)

// Enrollment is one student-course registration for a term.
// ObservedClassSize is 0 when the legacy system recorded no size.
type Enrollment struct {
	StudentID         string
	TermID            string
	CourseCode        string
	ClassID           string
	Cycle             Cycle
	AttendanceStatus  AttendanceStatus
	ObservedClassSize int
}

func (e Enrollment) IsDropped() bool {
	return e.AttendanceStatus == AttendanceDropped
}

// Payment is one recorded ledger payment.
type Payment struct {
	StudentID string
	TermID    string
	Amount    Money
	Date      Date
	Reference string
}

// =============================================================================
// PRICE TYPE - Closed classification
// =============================================================================

type PriceType string

const (
	PriceDefault       PriceType = "DEFAULT"
	PriceFixed         PriceType = "FIXED"
	PriceSeniorProject PriceType = "SENIOR_PROJECT"
	PriceReadingClass  PriceType = "READING_CLASS"
	PriceUnknown       PriceType = "UNKNOWN"
)

// =============================================================================
// RESULTS
// =============================================================================

// LineItem is one priced enrollment within a determination result.
type LineItem struct {
	CourseCode string
	ClassID    string
	StudentID  string
	UnitPrice  Money
}

// PriceDeterminationResult is the priced outcome for one group of
// enrollments sharing a price type (and, within DEFAULT, a cycle).
// The resolver always returns well-formed results: a missing catalog
// entry yields TotalPrice zero, Confidence zero, and an explanatory
// note, never an error.
type PriceDeterminationResult struct {
	PriceType      PriceType
	UnitPrice      Money
	TotalPrice     Money
	SourceRecordID string
	Confidence     int // 0-100
	Notes          []string
	LineItems      []LineItem

	// Tier carries the size tier the result was priced under, for
	// categories where one applies. The runner uses it to know which
	// tier was guessed for senior projects.
	Tier *SizeTier
}

func (r PriceDeterminationResult) HasNote() bool { return len(r.Notes) > 0 }
