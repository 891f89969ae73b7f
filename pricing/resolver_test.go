package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/tuition-engine/pricing"
)

// =============================================================================
// FIXTURE
// =============================================================================

func resolverFixture(t *testing.T) *pricing.Resolver {
	t.Helper()

	cfg := pricing.DefaultConfig()
	cfg.SeniorProjectCourses = []string{"SP-401"}
	cfg.ReadingClassPrefixes = []string{"IND-"}

	small := pricing.SizeTier{Label: "1-2", Min: 1, Max: 2}
	tier1 := pricing.SizeTier{Label: "1", Min: 1, Max: 1}
	tier2 := pricing.SizeTier{Label: "2", Min: 2, Max: 2}

	catalog, err := pricing.NewCatalog([]pricing.PricingRecord{
		{
			ID:    "ba-default",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleBachelor},
			Range: openRange(d(2024, time.January, 1)),
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(250), Foreign: pricing.NewMoney(350)},
		},
		{
			ID:    "chem-fixed",
			Scope: pricing.FixedScope{CourseCode: "CHEM-210L"},
			Range: openRange(d(2024, time.January, 1)),
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(410), Foreign: pricing.NewMoney(410)},
		},
		{
			ID:    "sp-1",
			Scope: pricing.SeniorProjectScope{Tier: tier1},
			Range: openRange(d(2024, time.January, 1)),
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(600), ForeignTotal: pricing.NewMoney(700)},
		},
		{
			ID:    "sp-2",
			Scope: pricing.SeniorProjectScope{Tier: tier2},
			Range: openRange(d(2024, time.January, 1)),
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(300), ForeignTotal: pricing.NewMoney(350)},
		},
		{
			ID:    "rc-ba-small",
			Scope: pricing.ReadingClassScope{Cycle: pricing.CycleBachelor, Tier: small},
			Range: openRange(d(2024, time.January, 1)),
			Rate:  pricing.PerStudentRate{PerStudent: pricing.NewMoney(200), MinimumRevenue: pricing.NewMoney(300)},
		},
	})
	require.NoError(t, err)

	return pricing.NewResolver(cfg, catalog)
}

func ba(course, class string, size int) pricing.Enrollment {
	return pricing.Enrollment{
		StudentID:         "s-1",
		TermID:            "2024F",
		CourseCode:        course,
		ClassID:           class,
		Cycle:             pricing.CycleBachelor,
		AttendanceStatus:  pricing.AttendanceActive,
		ObservedClassSize: size,
	}
}

// =============================================================================
// DEFAULT / FIXED
// =============================================================================

func TestResolver_Default_TwoBAEnrollmentsDomestic(t *testing.T) {
	// GIVEN: DefaultPricing{BA, domestic 250.00} effective 2024-01-01, open
	// WHEN: Pricing 2 BA enrollments, domestic, as of 2024-06-01
	// THEN: total 500.00, confidence 100

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{
		ba("MATH-101", "SEC-1", 0),
		ba("HIST-205", "SEC-2", 0),
	}, d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, pricing.PriceDefault, res.PriceType)
	assert.Equal(t, "500.00", res.TotalPrice.String())
	assert.Equal(t, "250.00", res.UnitPrice.String())
	assert.Equal(t, pricing.ConfidenceExact, res.Confidence)
	assert.Equal(t, "ba-default", res.SourceRecordID)
	assert.Len(t, res.LineItems, 2)
}

func TestResolver_Default_ForeignColumn(t *testing.T) {
	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{ba("MATH-101", "SEC-1", 0)},
		d(2024, time.June, 1), pricing.ResidencyForeign)

	require.Len(t, results, 1)
	assert.Equal(t, "350.00", results[0].TotalPrice.String())
}

func TestResolver_Fixed_OneResultPerCourse(t *testing.T) {
	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{
		ba("CHEM-210L", "SEC-1", 0),
		ba("MATH-101", "SEC-2", 0),
	}, d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 2)
	// Deterministic order: DEFAULT groups before FIXED.
	assert.Equal(t, pricing.PriceDefault, results[0].PriceType)
	assert.Equal(t, pricing.PriceFixed, results[1].PriceType)
	assert.Equal(t, "410.00", results[1].TotalPrice.String())
}

// =============================================================================
// SENIOR PROJECT
// =============================================================================

func TestResolver_SeniorProject_DefaultsToConservativeTier(t *testing.T) {
	// Group size is hidden; the resolver assumes the individual tier
	// and flags the guess with confidence 50.

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{ba("SP-401", "SEC-1", 0)},
		d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, pricing.PriceSeniorProject, res.PriceType)
	assert.Equal(t, "600.00", res.TotalPrice.String())
	assert.Equal(t, pricing.ConfidenceSeniorDefault, res.Confidence)
	require.NotNil(t, res.Tier)
	assert.Equal(t, "1", res.Tier.Label)
	assert.True(t, res.HasNote())
}

func TestResolver_SeniorTierCandidates_AscendingOrder(t *testing.T) {
	r := resolverFixture(t)
	cands := r.SeniorTierCandidates(d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, cands, 2) // tier "3+" has no record and is skipped
	assert.Equal(t, "1", cands[0].Tier.Label)
	assert.Equal(t, "600.00", cands[0].UnitPrice.String())
	assert.Equal(t, "2", cands[1].Tier.Label)
	assert.Equal(t, "300.00", cands[1].UnitPrice.String())
}

// =============================================================================
// READING CLASS
// =============================================================================

func TestResolver_ReadingClass_MinimumRevenueFloor(t *testing.T) {
	// GIVEN: tier "1-2", per-student 200.00, minimum revenue 300.00
	// Class size 1: the floor applies, per-student charge 300.00

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{ba("HIST-330", "IND-1", 1)},
		d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, pricing.PriceReadingClass, res.PriceType)
	assert.Equal(t, "300.00", res.TotalPrice.String())
	assert.Equal(t, "300.00", res.UnitPrice.String())
	assert.Equal(t, pricing.ConfidenceReadingClass, res.Confidence)
	assert.True(t, res.HasNote(), "floor application is noted")
}

func TestResolver_ReadingClass_PerStudentAboveFloor(t *testing.T) {
	// Class size 2: 2 x 200.00 = 400.00 beats the 300.00 floor.

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{
		ba("HIST-330", "IND-1", 2),
		{StudentID: "s-2", TermID: "2024F", CourseCode: "HIST-330", ClassID: "IND-1",
			Cycle: pricing.CycleBachelor, AttendanceStatus: pricing.AttendanceActive, ObservedClassSize: 2},
	}, d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "400.00", res.TotalPrice.String())
	assert.Equal(t, "200.00", res.UnitPrice.String())
}

func TestResolver_ReadingClass_FallsBackToGroupCount(t *testing.T) {
	// No observed size recorded: the group's own count selects the tier.

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{ba("HIST-330", "IND-1", 0)},
		d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	assert.Equal(t, "300.00", results[0].TotalPrice.String())
}

// =============================================================================
// TOTALITY
// =============================================================================

func TestResolver_MissingCatalogEntry_YieldsZeroConfidenceResult(t *testing.T) {
	// GIVEN: No MA default rate in the catalog
	// THEN: A well-formed result with total 0, confidence 0, and a note

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{
		{StudentID: "s-1", TermID: "2024F", CourseCode: "PHIL-500", ClassID: "SEC-1",
			Cycle: pricing.CycleMaster, AttendanceStatus: pricing.AttendanceActive},
	}, d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.TotalPrice.IsZero())
	assert.Equal(t, pricing.ConfidenceMissing, res.Confidence)
	assert.True(t, res.HasNote())
	assert.Len(t, res.LineItems, 1, "line items survive even without a rate")
}

func TestResolver_EmptyInput(t *testing.T) {
	r := resolverFixture(t)
	assert.Nil(t, r.ResolveGroup(nil, d(2024, time.June, 1), pricing.ResidencyDomestic))
}

func TestResolver_MixedGroupsResolveIndependently(t *testing.T) {
	// One bad group never poisons the others.

	r := resolverFixture(t)
	results := r.ResolveGroup([]pricing.Enrollment{
		ba("MATH-101", "SEC-1", 0),
		{StudentID: "s-1", TermID: "2024F", CourseCode: "PHIL-500", ClassID: "SEC-2",
			Cycle: pricing.CycleMaster, AttendanceStatus: pricing.AttendanceActive},
	}, d(2024, time.June, 1), pricing.ResidencyDomestic)

	require.Len(t, results, 2)
	assert.Equal(t, "250.00", results[0].TotalPrice.String())
	assert.True(t, results[1].TotalPrice.IsZero())
}
