/*
catalog.go - Effective-dated rate catalog

PURPOSE:
  In-memory index of pricing records answering "what rate applied for
  scope X on date D". Built once per run from the full record set and
  treated as an immutable snapshot for the run's duration; snapshot
  isolation from concurrent source updates is the caller's precondition.

INVARIANT (checked at load time, fatal on violation):
  For any scope, at most one record may be open-ended, and no two
  records may have overlapping [effective, end] intervals. Under this
  invariant Resolve has exactly zero or one answer, so lookup is a
  binary search over the per-scope list sorted by effective date.

NOT-FOUND IS A VALUE:
  Resolve returns (record, ok). A missing record is a normal outcome
  the resolver degrades on; it is never an error.
*/
package pricing

import (
	"sort"
)

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is an immutable snapshot of pricing records indexed by scope.
type Catalog struct {
	byScope map[string][]PricingRecord
	count   int
}

// NewCatalog builds and integrity-checks a catalog. The only error it
// returns wraps ErrCatalogIntegrity (or ErrEmptyCatalog); any other
// record-set is accepted as-is.
func NewCatalog(records []PricingRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	byScope := make(map[string][]PricingRecord)
	for _, rec := range records {
		k := rec.Scope.Key()
		byScope[k] = append(byScope[k], rec)
	}

	for key, recs := range byScope {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Range.Effective.Before(recs[j].Range.Effective)
		})
		if err := checkScopeIntegrity(key, recs); err != nil {
			return nil, err
		}
		byScope[key] = recs
	}

	return &Catalog{byScope: byScope, count: len(records)}, nil
}

// checkScopeIntegrity validates one scope's sorted record list.
func checkScopeIntegrity(key string, recs []PricingRecord) error {
	openID := ""
	for _, rec := range recs {
		if rec.Range.End != nil && rec.Range.End.Before(rec.Range.Effective) {
			return &IntegrityError{
				ScopeKey: key,
				Kind:     ViolationEndBeforeEffective,
				RecordA:  rec.ID,
				RecordB:  rec.ID,
			}
		}
		if rec.Range.IsOpen() {
			if openID != "" {
				return &IntegrityError{
					ScopeKey: key,
					Kind:     ViolationDuplicateOpen,
					RecordA:  openID,
					RecordB:  rec.ID,
				}
			}
			openID = rec.ID
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Range.Overlaps(recs[i-1].Range) {
			return &IntegrityError{
				ScopeKey: key,
				Kind:     ViolationOverlappingRanges,
				RecordA:  recs[i-1].ID,
				RecordB:  recs[i].ID,
			}
		}
	}
	return nil
}

// Resolve selects the record whose interval contains asOf. Under the
// load-time invariant at most one qualifies.
func (c *Catalog) Resolve(scope Scope, asOf Date) (PricingRecord, bool) {
	recs, ok := c.byScope[scope.Key()]
	if !ok {
		return PricingRecord{}, false
	}

	// Last record whose effective date is <= asOf is the only candidate.
	i := sort.Search(len(recs), func(i int) bool {
		return recs[i].Range.Effective.After(asOf)
	})
	if i == 0 {
		return PricingRecord{}, false
	}
	cand := recs[i-1]
	if !cand.Range.Contains(asOf) {
		return PricingRecord{}, false
	}
	return cand, true
}

// HasScope reports whether any record exists for the scope, regardless
// of date. The classifier uses this to detect fixed-price courses.
func (c *Catalog) HasScope(scope Scope) bool {
	_, ok := c.byScope[scope.Key()]
	return ok
}

// ScopeKeys returns all indexed scope keys, sorted. For inspection
// surfaces only.
func (c *Catalog) ScopeKeys() []string {
	keys := make([]string, 0, len(c.byScope))
	for k := range c.byScope {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records returns the sorted records for one scope key. For inspection
// surfaces only; callers must not mutate.
func (c *Catalog) Records(key string) []PricingRecord {
	return c.byScope[key]
}

// Len returns the total record count.
func (c *Catalog) Len() int { return c.count }
