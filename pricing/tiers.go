/*
tiers.go - Payment-driven tier disambiguation

PURPOSE:
  Senior-project pricing depends on group size, which the legacy data
  hides. Given the resolved unit price of each candidate tier and the
  amount actually paid, MatchByAmount searches for the tier whose price
  the payment plausibly reflects.

DETERMINISM:
  Candidates are iterated in ascending tier order and the FIRST one
  within tolerance wins. When more than one candidate fits, the match
  is flagged ambiguous so downstream reporting can surface it for
  confirmation against institutional rules instead of silently
  trusting the tie-break.

This is a pure function: no hidden state, independently testable from
the resolver.
*/
package pricing

// TierCandidate is one resolvable senior-project tier with its unit
// price as of the reconciliation date.
type TierCandidate struct {
	Tier           SizeTier
	UnitPrice      Money
	SourceRecordID string
}

// TierMatch is a successful disambiguation.
type TierMatch struct {
	Candidate TierCandidate

	// Ambiguous is set when a later candidate also fell within
	// tolerance; the first ascending match is still the answer.
	Ambiguous bool
}

// MatchByAmount returns the first candidate (ascending order) whose
// unit price lies within tolerance of the observed amount, or nil if
// none qualifies, in which case the caller keeps its default guess.
func MatchByAmount(candidatesAscending []TierCandidate, observed Money, tolerance Money) *TierMatch {
	for i, cand := range candidatesAscending {
		if !cand.UnitPrice.WithinTolerance(observed, tolerance) {
			continue
		}
		match := &TierMatch{Candidate: cand}
		for _, later := range candidatesAscending[i+1:] {
			if later.UnitPrice.WithinTolerance(observed, tolerance) {
				match.Ambiguous = true
				break
			}
		}
		return match
	}
	return nil
}
