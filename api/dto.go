/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.
  Amounts travel as fixed-point strings ("250.00"); dates as
  "2006-01-02".

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/catalog.go: RecordJSON reused for catalog inspection
*/
package api

import (
	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/reconcile"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EnrollmentDTO mirrors pricing.Enrollment on the wire.
type EnrollmentDTO struct {
	StudentID         string `json:"student_id"`
	TermID            string `json:"term_id"`
	CourseCode        string `json:"course_code"`
	ClassID           string `json:"class_id"`
	Cycle             string `json:"cycle"`
	AttendanceStatus  string `json:"attendance_status"`
	ObservedClassSize int    `json:"observed_class_size,omitempty"`
}

// PaymentDTO mirrors pricing.Payment on the wire.
type PaymentDTO struct {
	StudentID string `json:"student_id"`
	TermID    string `json:"term_id"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Reference string `json:"reference"`
}

// QuoteRequest is the body for POST /api/quote.
type QuoteRequest struct {
	Enrollments []EnrollmentDTO `json:"enrollments"`
	AsOf        string          `json:"as_of"`
	Residency   string          `json:"residency"`
}

// ReconcileRequest is the body for POST /api/reconcile.
type ReconcileRequest struct {
	Payment     PaymentDTO      `json:"payment"`
	Enrollments []EnrollmentDTO `json:"enrollments"`
	Residency   string          `json:"residency"`
}

// BatchRequest is the body for POST /api/reconcile/batch.
type BatchRequest struct {
	Items   []ReconcileRequest `json:"items"`
	Workers int                `json:"workers,omitempty"`
	Persist bool               `json:"persist,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LineItemDTO is one priced enrollment in a quote response.
type LineItemDTO struct {
	CourseCode string `json:"course_code"`
	ClassID    string `json:"class_id"`
	StudentID  string `json:"student_id"`
	UnitPrice  string `json:"unit_price"`
}

// PriceResultDTO is one priced group in a quote response.
type PriceResultDTO struct {
	PriceType      string        `json:"price_type"`
	UnitPrice      string        `json:"unit_price"`
	TotalPrice     string        `json:"total_price"`
	SourceRecordID string        `json:"source_record_id,omitempty"`
	Confidence     int           `json:"confidence"`
	Notes          []string      `json:"notes,omitempty"`
	Tier           string        `json:"tier,omitempty"`
	LineItems      []LineItemDTO `json:"line_items"`
}

// OutcomeDTO is one reconciliation outcome.
type OutcomeDTO struct {
	PaymentRef         string   `json:"payment_ref"`
	StudentID          string   `json:"student_id"`
	PaymentDate        string   `json:"payment_date"`
	ExpectedAmount     string   `json:"expected_amount"`
	ActualAmount       string   `json:"actual_amount"`
	Variance           string   `json:"variance"`
	VariancePct        string   `json:"variance_pct"`
	Status             string   `json:"status"`
	Confidence         int      `json:"confidence"`
	MatchedCourseCodes []string `json:"matched_course_codes,omitempty"`
	Notes              []string `json:"notes,omitempty"`
}

// SummaryDTO holds batch counters.
type SummaryDTO struct {
	Total             int `json:"total"`
	FullyReconciled   int `json:"fully_reconciled"`
	MinorVariance     int `json:"minor_variance"`
	PartialMatch      int `json:"partial_match"`
	Unmatched         int `json:"unmatched"`
	ZeroPaymentReview int `json:"zero_payment_review"`
	AllDropped        int `json:"all_dropped"`
}

// BatchResponse is the response for POST /api/reconcile/batch.
type BatchResponse struct {
	RunID    string       `json:"run_id"`
	Summary  SummaryDTO   `json:"summary"`
	Outcomes []OutcomeDTO `json:"outcomes"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEnrollment(dto EnrollmentDTO) pricing.Enrollment {
	status := pricing.AttendanceStatus(dto.AttendanceStatus)
	if status != pricing.AttendanceDropped {
		status = pricing.AttendanceActive
	}
	return pricing.Enrollment{
		StudentID:         dto.StudentID,
		TermID:            dto.TermID,
		CourseCode:        dto.CourseCode,
		ClassID:           dto.ClassID,
		Cycle:             pricing.Cycle(dto.Cycle),
		AttendanceStatus:  status,
		ObservedClassSize: dto.ObservedClassSize,
	}
}

func toEnrollments(dtos []EnrollmentDTO) []pricing.Enrollment {
	out := make([]pricing.Enrollment, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, toEnrollment(dto))
	}
	return out
}

func toResidency(s string) pricing.Residency {
	if pricing.Residency(s) == pricing.ResidencyForeign {
		return pricing.ResidencyForeign
	}
	return pricing.ResidencyDomestic
}

func fromResult(res pricing.PriceDeterminationResult) PriceResultDTO {
	dto := PriceResultDTO{
		PriceType:      string(res.PriceType),
		UnitPrice:      res.UnitPrice.String(),
		TotalPrice:     res.TotalPrice.String(),
		SourceRecordID: res.SourceRecordID,
		Confidence:     res.Confidence,
		Notes:          res.Notes,
	}
	if res.Tier != nil {
		dto.Tier = res.Tier.Label
	}
	for _, li := range res.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			CourseCode: li.CourseCode,
			ClassID:    li.ClassID,
			StudentID:  li.StudentID,
			UnitPrice:  li.UnitPrice.String(),
		})
	}
	return dto
}

func fromOutcome(out reconcile.Outcome) OutcomeDTO {
	return OutcomeDTO{
		PaymentRef:         out.PaymentRef,
		StudentID:          out.StudentID,
		PaymentDate:        out.PaymentDate.String(),
		ExpectedAmount:     out.ExpectedAmount.String(),
		ActualAmount:       out.ActualAmount.String(),
		Variance:           out.Variance.String(),
		VariancePct:        out.VariancePct.StringFixed(2),
		Status:             string(out.Status),
		Confidence:         out.Confidence,
		MatchedCourseCodes: out.MatchedCourseCodes,
		Notes:              out.Notes,
	}
}

func fromSummary(sum reconcile.Summary) SummaryDTO {
	return SummaryDTO{
		Total:             sum.Total,
		FullyReconciled:   sum.FullyReconciled,
		MinorVariance:     sum.MinorVariance,
		PartialMatch:      sum.PartialMatch,
		Unmatched:         sum.Unmatched,
		ZeroPaymentReview: sum.ZeroPaymentReview,
		AllDropped:        sum.AllDropped,
	}
}
