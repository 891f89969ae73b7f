package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/reconcile"
)

// =============================================================================
// FIXTURE
// =============================================================================

func d(y int, m time.Month, day int) pricing.Date {
	return pricing.NewDate(y, m, day)
}

func open(from pricing.Date) pricing.EffectiveDateRange {
	return pricing.EffectiveDateRange{Effective: from}
}

func testRunner(t *testing.T) *reconcile.Runner {
	t.Helper()

	cfg := pricing.DefaultConfig()
	cfg.SeniorProjectCourses = []string{"SP-401"}
	cfg.ReadingClassPrefixes = []string{"IND-"}

	tier1 := pricing.SizeTier{Label: "1", Min: 1, Max: 1}
	tier2 := pricing.SizeTier{Label: "2", Min: 2, Max: 2}

	catalog, err := pricing.NewCatalog([]pricing.PricingRecord{
		{
			ID:    "ba-default",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleBachelor},
			Range: open(d(2024, time.January, 1)),
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(250), Foreign: pricing.NewMoney(350)},
		},
		{
			ID:    "sp-1",
			Scope: pricing.SeniorProjectScope{Tier: tier1},
			Range: open(d(2024, time.January, 1)),
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(600), ForeignTotal: pricing.NewMoney(700)},
		},
		{
			ID:    "sp-2",
			Scope: pricing.SeniorProjectScope{Tier: tier2},
			Range: open(d(2024, time.January, 1)),
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(300), ForeignTotal: pricing.NewMoney(350)},
		},
	})
	require.NoError(t, err)

	return reconcile.NewRunner(cfg, catalog)
}

func payment(amount float64, ref string) pricing.Payment {
	return pricing.Payment{
		StudentID: "s-1",
		TermID:    "2024F",
		Amount:    pricing.NewMoney(amount),
		Date:      d(2024, time.June, 1),
		Reference: ref,
	}
}

func active(course, class string) pricing.Enrollment {
	return pricing.Enrollment{
		StudentID: "s-1", TermID: "2024F", CourseCode: course, ClassID: class,
		Cycle: pricing.CycleBachelor, AttendanceStatus: pricing.AttendanceActive,
	}
}

func dropped(course string) pricing.Enrollment {
	e := active(course, "SEC-X")
	e.AttendanceStatus = pricing.AttendanceDropped
	return e
}

// =============================================================================
// ZERO PAYMENTS
// =============================================================================

func TestRunner_ZeroPayment_AllDropped_FullyReconciled(t *testing.T) {
	// GIVEN: A zero payment and only dropped enrollments
	// THEN: FULLY_RECONCILED, confidence 100

	r := testRunner(t)
	out := r.ReconcilePayment(payment(0, "p-1"),
		[]pricing.Enrollment{dropped("MATH-101"), dropped("HIST-205")},
		pricing.ResidencyDomestic)

	assert.Equal(t, reconcile.StatusFullyReconciled, out.Status)
	assert.Equal(t, 100, out.Confidence)
	assert.True(t, out.AllDropped)
	assert.True(t, out.Variance.IsZero())
}

func TestRunner_ZeroPayment_ActiveEnrollments_NeedsReview(t *testing.T) {
	// The engine does not force an answer here; it flags for review.

	r := testRunner(t)
	out := r.ReconcilePayment(payment(0, "p-2"),
		[]pricing.Enrollment{active("MATH-101", "SEC-1")},
		pricing.ResidencyDomestic)

	assert.Equal(t, reconcile.StatusZeroPaymentReview, out.Status)
	assert.Equal(t, 0, out.Confidence)
}

// =============================================================================
// VARIANCE CLASSIFICATION
// =============================================================================

func TestRunner_ExactMatch_FullyReconciled(t *testing.T) {
	// 2 BA enrollments x 250.00 = 500.00 expected; 500.00 paid.

	r := testRunner(t)
	out := r.ReconcilePayment(payment(500, "p-3"),
		[]pricing.Enrollment{active("MATH-101", "SEC-1"), active("HIST-205", "SEC-2")},
		pricing.ResidencyDomestic)

	assert.Equal(t, reconcile.StatusFullyReconciled, out.Status)
	assert.Equal(t, 100, out.Confidence)
	assert.Equal(t, "500.00", out.ExpectedAmount.String())
	assert.True(t, out.Variance.IsZero())
	assert.ElementsMatch(t, []string{"MATH-101", "HIST-205"}, out.MatchedCourseCodes)
}

func TestRunner_DroppedEnrollmentsExcludedFromExpected(t *testing.T) {
	r := testRunner(t)
	out := r.ReconcilePayment(payment(250, "p-4"),
		[]pricing.Enrollment{active("MATH-101", "SEC-1"), dropped("HIST-205")},
		pricing.ResidencyDomestic)

	assert.Equal(t, "250.00", out.ExpectedAmount.String())
	assert.Equal(t, reconcile.StatusFullyReconciled, out.Status)
}

func TestRunner_VarianceThresholds_InclusiveBoundaries(t *testing.T) {
	// actual 1000.00 vs expected 950.00: variance 50.00 = 5.0% exactly.
	// Boundary is inclusive: MINOR_VARIANCE, confidence 95.

	r := testRunner(t)
	// 4 BA enrollments x 250.00 = 1000.00... we need expected 950, so
	// instead drive thresholds directly through differing payments
	// against a fixed expected of 500.00 (2 x 250.00).
	enrollments := []pricing.Enrollment{active("MATH-101", "SEC-1"), active("HIST-205", "SEC-2")}

	tests := []struct {
		name       string
		paid       float64
		status     reconcile.Status
		confidence int
	}{
		{"within one dollar", 500.75, reconcile.StatusFullyReconciled, 100},
		{"exactly 5 percent", 526.31, reconcile.StatusMinorVariance, 95},   // 26.31/526.31 = 4.9990% <= 5
		{"exactly at 5pct boundary", 526.3, reconcile.StatusMinorVariance, 95},
		{"under 10 percent", 550.00, reconcile.StatusPartialMatch, 85},     // 50/550 = 9.09%
		{"beyond 10 percent", 650.00, reconcile.StatusUnmatched, 0},        // 150/650 = 23.08%
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.ReconcilePayment(payment(tt.paid, "p-t"), enrollments, pricing.ResidencyDomestic)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.confidence, out.Confidence)
		})
	}
}

func TestRunner_FivePercentBoundaryExample(t *testing.T) {
	// actual 1000.00, expected 950.00: variancePct exactly 5.0 percent,
	// inclusive boundary keeps MINOR_VARIANCE at confidence 95.

	cfg := pricing.DefaultConfig()
	catalog, err := pricing.NewCatalog([]pricing.PricingRecord{{
		ID:    "ba-default",
		Scope: pricing.DefaultScope{Cycle: pricing.CycleBachelor},
		Range: open(d(2024, time.January, 1)),
		Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(475), Foreign: pricing.NewMoney(475)},
	}})
	require.NoError(t, err)
	r := reconcile.NewRunner(cfg, catalog)

	out := r.ReconcilePayment(payment(1000, "p-5"),
		[]pricing.Enrollment{active("MATH-101", "SEC-1"), active("HIST-205", "SEC-2")},
		pricing.ResidencyDomestic)

	assert.Equal(t, "950.00", out.ExpectedAmount.String())
	assert.Equal(t, "5", out.VariancePct.String())
	assert.Equal(t, reconcile.StatusMinorVariance, out.Status)
	assert.Equal(t, 95, out.Confidence)
}

// =============================================================================
// SENIOR-PROJECT TIER REFINEMENT
// =============================================================================

func TestRunner_SeniorProject_TierInferredFromPayment(t *testing.T) {
	// GIVEN: tiers {1: 600.00, 2: 300.00}; observed payment 300.00
	// THEN: tier 2 is substituted, the payment reconciles, and the
	// confidence is capped at 95 because the payment itself was the
	// evidence

	r := testRunner(t)
	out := r.ReconcilePayment(payment(300, "p-6"),
		[]pricing.Enrollment{active("SP-401", "SEC-1")},
		pricing.ResidencyDomestic)

	assert.Equal(t, reconcile.StatusFullyReconciled, out.Status)
	assert.Equal(t, 95, out.Confidence)
	assert.Equal(t, "300.00", out.ExpectedAmount.String())
	assert.Contains(t, out.Notes[0], "tier 2")
}

func TestRunner_SeniorProject_NoTierMatches_KeepsConservativeGuess(t *testing.T) {
	// Observed 450.00 matches no tier; the 600.00 individual-tier guess
	// stays and the variance classifies against it.

	r := testRunner(t)
	out := r.ReconcilePayment(payment(450, "p-7"),
		[]pricing.Enrollment{active("SP-401", "SEC-1")},
		pricing.ResidencyDomestic)

	assert.Equal(t, "600.00", out.ExpectedAmount.String())
	assert.Equal(t, reconcile.StatusUnmatched, out.Status) // 150/450 = 33%
}

// =============================================================================
// MISSING CATALOG DATA
// =============================================================================

func TestRunner_MissingCatalogData_ZeroConfidence(t *testing.T) {
	// An MA enrollment with no MA rate: the expected amount is
	// incomplete, so even a "matching" payment cannot be trusted.

	r := testRunner(t)
	out := r.ReconcilePayment(payment(0.50, "p-8"),
		[]pricing.Enrollment{{
			StudentID: "s-1", TermID: "2024F", CourseCode: "PHIL-500", ClassID: "SEC-1",
			Cycle: pricing.CycleMaster, AttendanceStatus: pricing.AttendanceActive,
		}},
		pricing.ResidencyDomestic)

	assert.Equal(t, 0, out.Confidence)
	assert.NotEmpty(t, out.Notes)
}

func TestRunner_IsPure_RerunsAreIdentical(t *testing.T) {
	r := testRunner(t)
	enrollments := []pricing.Enrollment{active("SP-401", "SEC-1"), active("MATH-101", "SEC-2")}

	a := r.ReconcilePayment(payment(550, "p-9"), enrollments, pricing.ResidencyDomestic)
	b := r.ReconcilePayment(payment(550, "p-9"), enrollments, pricing.ResidencyDomestic)

	assert.Equal(t, a, b)
}
