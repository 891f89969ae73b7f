/*
Package reconcile compares computed expected charges against recorded
payments and classifies each discrepancy.

PURPOSE:
  The runner answers, per payment: "given what this student was enrolled
  in and the rates historically in effect, is the recorded amount
  right?" Each reconciliation is a pure function of its inputs, so
  re-runs are idempotent and results are comparable across runs.

CLASSIFICATION (inclusive at boundaries):
  variance <= $1.00        FULLY_RECONCILED  confidence 100
  variancePct <= 5%        MINOR_VARIANCE    confidence 95
  variancePct <= 10%       PARTIAL_MATCH     confidence 85
  otherwise                UNMATCHED         confidence 0

ZERO PAYMENTS:
  A zero payment over all-dropped enrollments is fully reconciled (the
  student owed nothing). A zero payment with active enrollments needs
  human review; the engine does not force an answer.

SENIOR-PROJECT REFINEMENT:
  The resolver guesses the conservative individual tier. The runner
  tries to do better: if some tier's price lies within tolerance of the
  observed payment, that tier's price replaces the guess and expected
  is recomputed. Because the refinement uses the payment itself as
  evidence, confidence is capped at 95 even on an exact match.

SEE ALSO:
  - batch.go: Worker-pool batch processing and summary counters
*/
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian/tuition-engine/pricing"
)

// =============================================================================
// OUTCOME
// =============================================================================

type Status string

const (
	StatusFullyReconciled   Status = "FULLY_RECONCILED"
	StatusMinorVariance     Status = "MINOR_VARIANCE"
	StatusPartialMatch      Status = "PARTIAL_MATCH"
	StatusUnmatched         Status = "UNMATCHED"
	StatusZeroPaymentReview Status = "ZERO_PAYMENT_REVIEW"
)

// Outcome is the reconciliation result for one payment.
type Outcome struct {
	PaymentRef         string
	StudentID          string
	PaymentDate        pricing.Date
	ExpectedAmount     pricing.Money
	ActualAmount       pricing.Money
	Variance           pricing.Money
	VariancePct        decimal.Decimal
	Status             Status
	Confidence         int
	MatchedCourseCodes []string
	Notes              []string

	// AllDropped marks the zero-payment/all-dropped branch for the
	// batch counters.
	AllDropped bool
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner reconciles payments against a resolver built over an immutable
// catalog snapshot. Safe for concurrent use; it holds no per-payment
// state.
type Runner struct {
	resolver *pricing.Resolver
	cfg      pricing.Config

	// AsOf selects the pricing date for a payment. Defaults to the
	// payment date when nil.
	AsOf func(pricing.Payment) pricing.Date
}

func NewRunner(cfg pricing.Config, catalog *pricing.Catalog) *Runner {
	return &Runner{
		resolver: pricing.NewResolver(cfg, catalog),
		cfg:      cfg,
	}
}

// Resolver exposes the underlying resolver for quoting entry points.
func (r *Runner) Resolver() *pricing.Resolver { return r.resolver }

func (r *Runner) asOf(p pricing.Payment) pricing.Date {
	if r.AsOf != nil {
		return r.AsOf(p)
	}
	return p.Date
}

// ReconcilePayment resolves the expected charge for the payment's
// enrollments and classifies the variance. Dropped enrollments never
// contribute to the expected amount.
func (r *Runner) ReconcilePayment(payment pricing.Payment, enrollments []pricing.Enrollment, residency pricing.Residency) Outcome {
	active := activeOnly(enrollments)

	if payment.Amount.IsZero() {
		return r.reconcileZeroPayment(payment, enrollments, active)
	}

	asOf := r.asOf(payment)
	results := r.resolver.ResolveGroup(active, asOf, residency)
	results, refined, notes := r.refineSeniorProjects(results, payment.Amount, asOf, residency)

	expected := pricing.ZeroMoney()
	minConfidence := pricing.ConfidenceExact
	var courses []string
	for _, res := range results {
		expected = expected.Add(res.TotalPrice)
		if res.Confidence < minConfidence {
			minConfidence = res.Confidence
		}
		notes = append(notes, res.Notes...)
		for _, li := range res.LineItems {
			courses = append(courses, li.CourseCode)
		}
	}

	out := Outcome{
		PaymentRef:         payment.Reference,
		StudentID:          payment.StudentID,
		PaymentDate:        payment.Date,
		ExpectedAmount:     expected,
		ActualAmount:       payment.Amount,
		MatchedCourseCodes: courses,
		Notes:              notes,
	}
	out.Variance = payment.Amount.Sub(expected).Abs()
	if !payment.Amount.IsZero() {
		out.VariancePct = out.Variance.PctOf(payment.Amount)
	}

	out.Status, out.Confidence = classifyVariance(out.Variance, out.VariancePct)

	// Refinement uses the payment as evidence for the tier, so even an
	// exact match cannot claim full confidence.
	if refined && out.Confidence > 95 {
		out.Confidence = 95
	}
	// A zero-confidence resolution (missing catalog data) cannot be
	// upgraded by a coincidentally matching amount.
	if minConfidence == pricing.ConfidenceMissing && out.Confidence > 0 {
		out.Confidence = 0
		out.Notes = append(out.Notes, "expected amount incomplete: catalog data missing")
	}
	return out
}

func (r *Runner) reconcileZeroPayment(payment pricing.Payment, all, active []pricing.Enrollment) Outcome {
	out := Outcome{
		PaymentRef:     payment.Reference,
		StudentID:      payment.StudentID,
		PaymentDate:    payment.Date,
		ExpectedAmount: pricing.ZeroMoney(),
		ActualAmount:   pricing.ZeroMoney(),
		Variance:       pricing.ZeroMoney(),
	}
	if len(active) == 0 {
		out.Status = StatusFullyReconciled
		out.Confidence = 100
		out.AllDropped = true
		if len(all) > 0 {
			out.Notes = append(out.Notes, fmt.Sprintf("zero payment over %d dropped enrollments", len(all)))
		}
		return out
	}
	out.Status = StatusZeroPaymentReview
	out.Confidence = 0
	out.Notes = append(out.Notes, fmt.Sprintf("zero payment with %d active enrollments", len(active)))
	return out
}

// refineSeniorProjects substitutes a payment-matched tier price into
// senior-project results. Returns the (possibly rewritten) results,
// whether any refinement happened, and notes to attach to the outcome.
func (r *Runner) refineSeniorProjects(results []pricing.PriceDeterminationResult, observed pricing.Money, asOf pricing.Date, residency pricing.Residency) ([]pricing.PriceDeterminationResult, bool, []string) {
	refined := false
	var notes []string
	for i, res := range results {
		if res.PriceType != pricing.PriceSeniorProject || res.Confidence == pricing.ConfidenceMissing {
			continue
		}
		cands := r.resolver.SeniorTierCandidates(asOf, residency)
		match := pricing.MatchByAmount(cands, observed, r.cfg.TierMatchTolerance)
		if match == nil {
			continue
		}

		count := len(res.LineItems)
		res.Notes = nil // the "assumed tier" note no longer applies
		res.UnitPrice = match.Candidate.UnitPrice
		res.TotalPrice = match.Candidate.UnitPrice.MulInt(count)
		res.SourceRecordID = match.Candidate.SourceRecordID
		res.Tier = &match.Candidate.Tier
		res.Confidence = 95
		for j := range res.LineItems {
			res.LineItems[j].UnitPrice = match.Candidate.UnitPrice
		}
		notes = append(notes, fmt.Sprintf("senior-project tier %s inferred from payment amount", match.Candidate.Tier))
		if match.Ambiguous {
			notes = append(notes, "multiple senior-project tiers within tolerance; kept lowest — confirm against institutional rules")
		}
		results[i] = res
		refined = true
	}
	return results, refined, notes
}

// =============================================================================
// VARIANCE CLASSIFICATION
// =============================================================================

var (
	varianceFloor = pricing.NewMoney(1.00)
	minorPct      = decimal.NewFromInt(5)
	partialPct    = decimal.NewFromInt(10)
)

// classifyVariance applies the inclusive thresholds.
func classifyVariance(variance pricing.Money, pct decimal.Decimal) (Status, int) {
	switch {
	case !variance.GreaterThan(varianceFloor):
		return StatusFullyReconciled, 100
	case !pct.GreaterThan(minorPct):
		return StatusMinorVariance, 95
	case !pct.GreaterThan(partialPct):
		return StatusPartialMatch, 85
	default:
		return StatusUnmatched, 0
	}
}

func activeOnly(enrollments []pricing.Enrollment) []pricing.Enrollment {
	var active []pricing.Enrollment
	for _, e := range enrollments {
		if !e.IsDropped() {
			active = append(active, e)
		}
	}
	return active
}
