/*
errors.go - Centralized error types for the pricing engine

PURPOSE:
  All error types in one place. The engine's resolution paths are total
  functions: the ONLY fatal error is a catalog integrity violation at
  load time, because any resolution over an ambiguous catalog would be
  non-deterministic. Everything else (missing records, malformed source
  fields, classification ambiguity) surfaces as low-confidence results
  or warnings, never as errors from the hot path.

USAGE:
  if errors.Is(err, pricing.ErrCatalogIntegrity) {
      // abort the run; the catalog cannot be trusted
  }
*/
package pricing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCatalogIntegrity is returned at load time when the record set
	// violates the uniqueness invariant for a scope. Fatal for the run.
	ErrCatalogIntegrity = errors.New("catalog integrity violation")

	// ErrEmptyCatalog is returned when a catalog is built from no records.
	ErrEmptyCatalog = errors.New("catalog contains no records")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// IntegrityError details which scope broke the catalog invariant and how.
type IntegrityError struct {
	ScopeKey string
	Kind     IntegrityViolation
	RecordA  string // record IDs involved
	RecordB  string
}

type IntegrityViolation string

const (
	ViolationDuplicateOpen      IntegrityViolation = "duplicate_open_record"
	ViolationOverlappingRanges  IntegrityViolation = "overlapping_ranges"
	ViolationEndBeforeEffective IntegrityViolation = "end_before_effective"
)

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity violation for scope %s: %s (records %s, %s)",
		e.ScopeKey, e.Kind, e.RecordA, e.RecordB)
}

func (e *IntegrityError) Unwrap() error {
	return ErrCatalogIntegrity
}
