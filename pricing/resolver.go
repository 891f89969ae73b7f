/*
resolver.go - Group pricing

PURPOSE:
  Takes a student's classified enrollments and computes what each group
  should have cost under the catalog as of a given date. This is the
  heart of the engine and the secondary public entry point for quoting.

GROUPING:
  DEFAULT         one result per cycle; total = unit x enrollment count
  FIXED           one result per distinct course
  SENIOR_PROJECT  group size is hidden at this stage; the resolver
                  prices the most conservative (individual) tier and
                  fixes confidence at 50 to flag the guess downstream
  READING_CLASS   one result per class; tier from observed class size;
                  total = max(count x per-student, minimum revenue)

TOTALITY:
  The resolver never returns an error. A missing catalog entry yields a
  zero-total, zero-confidence result with an explanatory note, and
  processing continues with the remaining groups.
*/
package pricing

import (
	"fmt"
	"sort"
)

// Confidence levels assigned by the resolver. The senior-project value
// deliberately flags a guess the reconciliation runner may refine.
const (
	ConfidenceExact         = 100
	ConfidenceReadingClass  = 90
	ConfidenceSeniorDefault = 50
	ConfidenceMissing       = 0
)

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver prices groups of enrollments against an immutable catalog
// snapshot. Safe for concurrent use.
type Resolver struct {
	cfg        Config
	catalog    *Catalog
	classifier *Classifier
}

func NewResolver(cfg Config, catalog *Catalog) *Resolver {
	return &Resolver{
		cfg:        cfg,
		catalog:    catalog,
		classifier: NewClassifier(cfg, catalog),
	}
}

// Classifier exposes the resolver's classifier for callers that tag
// enrollments separately.
func (r *Resolver) Classifier() *Classifier { return r.classifier }

// ResolveGroup classifies and prices a set of enrollments as of a date.
// Results are ordered deterministically: by price type, then group key.
func (r *Resolver) ResolveGroup(enrollments []Enrollment, asOf Date, residency Residency) []PriceDeterminationResult {
	if len(enrollments) == 0 {
		return nil
	}

	byDefault := make(map[Cycle][]Enrollment)
	byFixed := make(map[string][]Enrollment)
	byReading := make(map[string][]Enrollment)
	var senior []Enrollment

	for _, e := range enrollments {
		switch r.classifier.Classify(e, asOf) {
		case PriceSeniorProject:
			senior = append(senior, e)
		case PriceReadingClass:
			byReading[e.ClassID] = append(byReading[e.ClassID], e)
		case PriceFixed:
			byFixed[e.CourseCode] = append(byFixed[e.CourseCode], e)
		default:
			byDefault[e.Cycle] = append(byDefault[e.Cycle], e)
		}
	}

	var results []PriceDeterminationResult
	for _, cycle := range sortedCycles(byDefault) {
		results = append(results, r.resolveDefault(cycle, byDefault[cycle], asOf, residency))
	}
	for _, course := range sortedKeys(byFixed) {
		results = append(results, r.resolveFixed(course, byFixed[course], asOf, residency))
	}
	if len(senior) > 0 {
		results = append(results, r.resolveSeniorProject(senior, asOf, residency))
	}
	for _, classID := range sortedKeys(byReading) {
		results = append(results, r.resolveReadingClass(classID, byReading[classID], asOf))
	}
	return results
}

// =============================================================================
// PER-CATEGORY RESOLUTION
// =============================================================================

func (r *Resolver) resolveDefault(cycle Cycle, group []Enrollment, asOf Date, residency Residency) PriceDeterminationResult {
	rec, ok := r.catalog.Resolve(DefaultScope{Cycle: cycle}, asOf)
	if !ok {
		return missingResult(PriceDefault, group,
			fmt.Sprintf("no default rate for cycle %s on %s", cycle, asOf))
	}

	rate, ok := rec.Rate.(ResidencyRate)
	if !ok {
		return missingResult(PriceDefault, group,
			fmt.Sprintf("record %s carries a %s payload, expected residency rate", rec.ID, rec.Rate.RateKind()))
	}

	unit := rate.ForResidency(residency)
	return PriceDeterminationResult{
		PriceType:      PriceDefault,
		UnitPrice:      unit,
		TotalPrice:     unit.MulInt(len(group)),
		SourceRecordID: rec.ID,
		Confidence:     ConfidenceExact,
		LineItems:      lineItems(group, unit),
	}
}

func (r *Resolver) resolveFixed(course string, group []Enrollment, asOf Date, residency Residency) PriceDeterminationResult {
	rec, ok := r.catalog.Resolve(FixedScope{CourseCode: course}, asOf)
	if !ok {
		return missingResult(PriceFixed, group,
			fmt.Sprintf("no fixed rate for course %s on %s", course, asOf))
	}

	rate, ok := rec.Rate.(ResidencyRate)
	if !ok {
		return missingResult(PriceFixed, group,
			fmt.Sprintf("record %s carries a %s payload, expected residency rate", rec.ID, rec.Rate.RateKind()))
	}

	unit := rate.ForResidency(residency)
	return PriceDeterminationResult{
		PriceType:      PriceFixed,
		UnitPrice:      unit,
		TotalPrice:     unit.MulInt(len(group)),
		SourceRecordID: rec.ID,
		Confidence:     ConfidenceExact,
		LineItems:      lineItems(group, unit),
	}
}

// resolveSeniorProject prices the most conservative tier. The true
// group size is hidden in the legacy data; the runner may later refine
// the tier against the observed payment.
func (r *Resolver) resolveSeniorProject(group []Enrollment, asOf Date, residency Residency) PriceDeterminationResult {
	tier, ok := r.cfg.ConservativeSeniorTier()
	if !ok {
		return missingResult(PriceSeniorProject, group, "no senior-project tiers configured")
	}

	rec, found := r.catalog.Resolve(SeniorProjectScope{Tier: tier}, asOf)
	if !found {
		return missingResult(PriceSeniorProject, group,
			fmt.Sprintf("no senior-project rate for tier %s on %s", tier, asOf))
	}

	rate, ok := rec.Rate.(GroupRate)
	if !ok {
		return missingResult(PriceSeniorProject, group,
			fmt.Sprintf("record %s carries a %s payload, expected group rate", rec.ID, rec.Rate.RateKind()))
	}

	unit := rate.ForResidency(residency)
	res := PriceDeterminationResult{
		PriceType:      PriceSeniorProject,
		UnitPrice:      unit,
		TotalPrice:     unit.MulInt(len(group)),
		SourceRecordID: rec.ID,
		Confidence:     ConfidenceSeniorDefault,
		Notes:          []string{fmt.Sprintf("group size unknown; assumed tier %s", tier)},
		LineItems:      lineItems(group, unit),
		Tier:           &tier,
	}
	return res
}

func (r *Resolver) resolveReadingClass(classID string, group []Enrollment, asOf Date) PriceDeterminationResult {
	size := observedSize(group)
	tier, ok := r.cfg.ReadingClassTierFor(size)
	if !ok {
		return missingResult(PriceReadingClass, group,
			fmt.Sprintf("no reading-class tier covers size %d", size))
	}

	cycle := group[0].Cycle
	rec, found := r.catalog.Resolve(ReadingClassScope{Cycle: cycle, Tier: tier}, asOf)
	if !found {
		return missingResult(PriceReadingClass, group,
			fmt.Sprintf("no reading-class rate for cycle %s tier %s on %s", cycle, tier, asOf))
	}

	rate, ok := rec.Rate.(PerStudentRate)
	if !ok {
		return missingResult(PriceReadingClass, group,
			fmt.Sprintf("record %s carries a %s payload, expected per-student rate", rec.ID, rec.Rate.RateKind()))
	}

	count := len(group)
	total := rate.TotalCharge(count)
	unit := total.DivInt(count)
	res := PriceDeterminationResult{
		PriceType:      PriceReadingClass,
		UnitPrice:      unit,
		TotalPrice:     total,
		SourceRecordID: rec.ID,
		Confidence:     ConfidenceReadingClass,
		LineItems:      lineItems(group, unit),
		Tier:           &tier,
	}
	if total.Equal(rate.MinimumRevenue) && rate.PerStudent.MulInt(count).LessThan(rate.MinimumRevenue) {
		res.Notes = append(res.Notes,
			fmt.Sprintf("minimum revenue %s applied over %d x %s", rate.MinimumRevenue, count, rate.PerStudent))
	}
	return res
}

// =============================================================================
// SENIOR-PROJECT TIER CANDIDATES
// =============================================================================

// SeniorTierCandidates resolves the unit price of every configured
// senior-project tier as of a date, in ascending tier order. Tiers
// without a catalog record are skipped. The reconciliation runner feeds
// these to the tier matcher.
func (r *Resolver) SeniorTierCandidates(asOf Date, residency Residency) []TierCandidate {
	var cands []TierCandidate
	for _, tier := range r.cfg.SeniorProjectTiers {
		rec, ok := r.catalog.Resolve(SeniorProjectScope{Tier: tier}, asOf)
		if !ok {
			continue
		}
		rate, ok := rec.Rate.(GroupRate)
		if !ok {
			continue
		}
		cands = append(cands, TierCandidate{
			Tier:           tier,
			UnitPrice:      rate.ForResidency(residency),
			SourceRecordID: rec.ID,
		})
	}
	return cands
}

// =============================================================================
// HELPERS
// =============================================================================

func missingResult(pt PriceType, group []Enrollment, note string) PriceDeterminationResult {
	return PriceDeterminationResult{
		PriceType:  pt,
		UnitPrice:  ZeroMoney(),
		TotalPrice: ZeroMoney(),
		Confidence: ConfidenceMissing,
		Notes:      []string{note},
		LineItems:  lineItems(group, ZeroMoney()),
	}
}

func lineItems(group []Enrollment, unit Money) []LineItem {
	items := make([]LineItem, 0, len(group))
	for _, e := range group {
		items = append(items, LineItem{
			CourseCode: e.CourseCode,
			ClassID:    e.ClassID,
			StudentID:  e.StudentID,
			UnitPrice:  unit,
		})
	}
	return items
}

// observedSize picks the recorded class size for a reading-class group,
// falling back to the group's own enrollment count when the legacy data
// recorded none.
func observedSize(group []Enrollment) int {
	for _, e := range group {
		if e.ObservedClassSize > 0 {
			return e.ObservedClassSize
		}
	}
	return len(group)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCycles[V any](m map[Cycle]V) []Cycle {
	keys := make([]Cycle, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
