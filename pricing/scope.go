/*
scope.go - Pricing scope tagged union

PURPOSE:
  A Scope identifies WHAT a pricing record prices: the default per-cycle
  tuition, a fixed-price course, a senior-project group tier, or a
  small reading class. The catalog indexes records by scope key, and the
  resolver asks "what rate applied for scope X on date D".

KEY CONCEPTS:
  - Cycle: program level (language program, bachelor's, master's)
  - Residency: domestic vs foreign, selecting between parallel rate columns
  - SizeTier: discrete group/class-size bucket selecting among rates

CLOSED SET:
  The scope kinds form a closed set. Adding a pricing category means
  touching the classifier, the resolver, and any switch over ScopeKind;
  the compiler flags each site.

SEE ALSO:
  - record.go: Rate payloads attached to scopes
  - catalog.go: Per-scope effective-dated lookup
*/
package pricing

import (
	"fmt"
)

// =============================================================================
// CYCLE / RESIDENCY
// =============================================================================

// Cycle is a program level used as a pricing scope key.
type Cycle string

const (
	CycleLanguage Cycle = "LP" // language program
	CycleBachelor Cycle = "BA"
	CycleMaster   Cycle = "MA"
)

// Residency selects between the domestic and foreign rate columns.
type Residency string

const (
	ResidencyDomestic Residency = "domestic"
	ResidencyForeign  Residency = "foreign"
)

// =============================================================================
// SIZE TIER - Group/class-size bucket
// =============================================================================

// SizeTier is a discrete bucket by group or class size. Max == 0 means
// unbounded ("6+").
type SizeTier struct {
	Label string
	Min   int
	Max   int
}

// Contains reports whether a group of size n falls in this tier.
func (t SizeTier) Contains(n int) bool {
	if n < t.Min {
		return false
	}
	return t.Max == 0 || n <= t.Max
}

// IsIndividual reports whether this is the single-student tier, the
// most conservative default when group size is unknown.
func (t SizeTier) IsIndividual() bool {
	return t.Min <= 1 && t.Max == 1
}

func (t SizeTier) String() string { return t.Label }

// =============================================================================
// SCOPE - Tagged union over pricing categories
// =============================================================================

type ScopeKind string

const (
	ScopeDefault       ScopeKind = "default"
	ScopeFixed         ScopeKind = "fixed"
	ScopeSeniorProject ScopeKind = "senior_project"
	ScopeReadingClass  ScopeKind = "reading_class"
)

// Scope identifies what a pricing record applies to. Implementations
// are the four concrete scope structs below; Key is stable and used as
// the catalog index.
type Scope interface {
	Kind() ScopeKind
	Key() string
}

// DefaultScope prices ordinary per-cycle tuition.
type DefaultScope struct {
	Cycle Cycle
}

func (s DefaultScope) Kind() ScopeKind { return ScopeDefault }
func (s DefaultScope) Key() string     { return fmt.Sprintf("default/%s", s.Cycle) }

// FixedScope prices one specific course regardless of cycle.
type FixedScope struct {
	CourseCode string
}

func (s FixedScope) Kind() ScopeKind { return ScopeFixed }
func (s FixedScope) Key() string     { return fmt.Sprintf("fixed/%s", s.CourseCode) }

// SeniorProjectScope prices a senior-project group of a given size tier.
type SeniorProjectScope struct {
	Tier SizeTier
}

func (s SeniorProjectScope) Kind() ScopeKind { return ScopeSeniorProject }
func (s SeniorProjectScope) Key() string     { return fmt.Sprintf("senior_project/%s", s.Tier.Label) }

// ReadingClassScope prices a small individual-instruction class.
type ReadingClassScope struct {
	Cycle Cycle
	Tier  SizeTier
}

func (s ReadingClassScope) Kind() ScopeKind { return ScopeReadingClass }
func (s ReadingClassScope) Key() string {
	return fmt.Sprintf("reading_class/%s/%s", s.Cycle, s.Tier.Label)
}
