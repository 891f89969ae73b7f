/*
Package factory provides JSON to Go pricing catalog conversion.

PURPOSE:
  Converts JSON catalog documents into pricing.PricingRecord sets. This
  enables rate administration without a code change - the registrar's
  office exports rate history as JSON, and the factory builds the typed
  records the catalog loads.

JSON SCHEMA:
  {
    "records": [
      {
        "id": "ba-default-2024",
        "scope": {"kind": "default", "cycle": "BA"},
        "effective": "2024-01-01",
        "end": null,
        "rate": {"kind": "residency", "domestic": "250.00", "foreign": "350.00"}
      },
      {
        "id": "sp-1-2024",
        "scope": {"kind": "senior_project", "tier": {"label": "1", "min": 1, "max": 1}},
        "effective": "2024-01-01",
        "rate": {"kind": "group", "total": "600.00", "foreign_total": "700.00"}
      }
    ]
  }

VALIDATION:
  The factory validates shape (known kinds, parsable dates and amounts)
  and fails fast with row context. The interval invariants - one open
  record per scope, no overlaps - stay with pricing.NewCatalog, where
  they are checked once for every load path.

SEE ALSO:
  - pricing/record.go: Record and rate payload types
  - pricing/catalog.go: Load-time integrity checking
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/meridian/tuition-engine/pricing"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type CatalogJSON struct {
	Records []RecordJSON `json:"records"`
}

type RecordJSON struct {
	ID        string    `json:"id"`
	Scope     ScopeJSON `json:"scope"`
	Effective string    `json:"effective"`
	End       *string   `json:"end,omitempty"`
	Rate      RateJSON  `json:"rate"`
}

type ScopeJSON struct {
	Kind       string    `json:"kind"`
	Cycle      string    `json:"cycle,omitempty"`
	CourseCode string    `json:"course_code,omitempty"`
	Tier       *TierJSON `json:"tier,omitempty"`
}

type TierJSON struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

type RateJSON struct {
	Kind           string `json:"kind"`
	Domestic       string `json:"domestic,omitempty"`
	Foreign        string `json:"foreign,omitempty"`
	Total          string `json:"total,omitempty"`
	ForeignTotal   string `json:"foreign_total,omitempty"`
	PerStudent     string `json:"per_student,omitempty"`
	MinimumRevenue string `json:"minimum_revenue,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalog converts a JSON catalog document into pricing records.
func ParseCatalog(data []byte) ([]pricing.PricingRecord, error) {
	var doc CatalogJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog json: %w", err)
	}

	records := make([]pricing.PricingRecord, 0, len(doc.Records))
	for i, rj := range doc.Records {
		rec, err := parseRecord(rj)
		if err != nil {
			return nil, fmt.Errorf("catalog record %d (%s): %w", i, rj.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(rj RecordJSON) (pricing.PricingRecord, error) {
	scope, err := parseScope(rj.Scope)
	if err != nil {
		return pricing.PricingRecord{}, err
	}
	rate, err := parseRate(rj.Rate)
	if err != nil {
		return pricing.PricingRecord{}, err
	}

	effective, ok := pricing.ParseDate(rj.Effective)
	if !ok {
		return pricing.PricingRecord{}, fmt.Errorf("bad effective date %q", rj.Effective)
	}
	rng := pricing.EffectiveDateRange{Effective: effective}
	if rj.End != nil {
		end, ok := pricing.ParseDate(*rj.End)
		if !ok {
			return pricing.PricingRecord{}, fmt.Errorf("bad end date %q", *rj.End)
		}
		rng.End = &end
	}

	return pricing.PricingRecord{ID: rj.ID, Scope: scope, Range: rng, Rate: rate}, nil
}

func parseScope(sj ScopeJSON) (pricing.Scope, error) {
	switch pricing.ScopeKind(sj.Kind) {
	case pricing.ScopeDefault:
		if sj.Cycle == "" {
			return nil, fmt.Errorf("default scope requires cycle")
		}
		return pricing.DefaultScope{Cycle: pricing.Cycle(sj.Cycle)}, nil
	case pricing.ScopeFixed:
		if sj.CourseCode == "" {
			return nil, fmt.Errorf("fixed scope requires course_code")
		}
		return pricing.FixedScope{CourseCode: sj.CourseCode}, nil
	case pricing.ScopeSeniorProject:
		if sj.Tier == nil {
			return nil, fmt.Errorf("senior_project scope requires tier")
		}
		return pricing.SeniorProjectScope{Tier: toTier(*sj.Tier)}, nil
	case pricing.ScopeReadingClass:
		if sj.Cycle == "" || sj.Tier == nil {
			return nil, fmt.Errorf("reading_class scope requires cycle and tier")
		}
		return pricing.ReadingClassScope{Cycle: pricing.Cycle(sj.Cycle), Tier: toTier(*sj.Tier)}, nil
	default:
		return nil, fmt.Errorf("unknown scope kind %q", sj.Kind)
	}
}

func parseRate(rj RateJSON) (pricing.Rate, error) {
	switch pricing.RateKind(rj.Kind) {
	case pricing.RateResidency:
		domestic, ok := pricing.ParseMoney(rj.Domestic)
		if !ok {
			return nil, fmt.Errorf("bad domestic amount %q", rj.Domestic)
		}
		foreign, ok := pricing.ParseMoney(rj.Foreign)
		if !ok {
			return nil, fmt.Errorf("bad foreign amount %q", rj.Foreign)
		}
		return pricing.ResidencyRate{Domestic: domestic, Foreign: foreign}, nil
	case pricing.RateGroup:
		total, ok := pricing.ParseMoney(rj.Total)
		if !ok {
			return nil, fmt.Errorf("bad total amount %q", rj.Total)
		}
		foreignTotal := total
		if rj.ForeignTotal != "" {
			foreignTotal, ok = pricing.ParseMoney(rj.ForeignTotal)
			if !ok {
				return nil, fmt.Errorf("bad foreign_total amount %q", rj.ForeignTotal)
			}
		}
		return pricing.GroupRate{Total: total, ForeignTotal: foreignTotal}, nil
	case pricing.RatePerStudent:
		perStudent, ok := pricing.ParseMoney(rj.PerStudent)
		if !ok {
			return nil, fmt.Errorf("bad per_student amount %q", rj.PerStudent)
		}
		minRevenue, ok := pricing.ParseMoney(rj.MinimumRevenue)
		if !ok {
			return nil, fmt.Errorf("bad minimum_revenue amount %q", rj.MinimumRevenue)
		}
		return pricing.PerStudentRate{PerStudent: perStudent, MinimumRevenue: minRevenue}, nil
	default:
		return nil, fmt.Errorf("unknown rate kind %q", rj.Kind)
	}
}

func toTier(tj TierJSON) pricing.SizeTier {
	return pricing.SizeTier{Label: tj.Label, Min: tj.Min, Max: tj.Max}
}

func fromTier(t pricing.SizeTier) TierJSON {
	return TierJSON{Label: t.Label, Min: t.Min, Max: t.Max}
}

// =============================================================================
// SERIALIZATION (for persistence and API inspection)
// =============================================================================

// RecordToJSON converts a typed record back to its JSON shape.
func RecordToJSON(rec pricing.PricingRecord) (RecordJSON, error) {
	rj := RecordJSON{ID: rec.ID, Effective: rec.Range.Effective.String()}
	if rec.Range.End != nil {
		s := rec.Range.End.String()
		rj.End = &s
	}

	switch s := rec.Scope.(type) {
	case pricing.DefaultScope:
		rj.Scope = ScopeJSON{Kind: string(pricing.ScopeDefault), Cycle: string(s.Cycle)}
	case pricing.FixedScope:
		rj.Scope = ScopeJSON{Kind: string(pricing.ScopeFixed), CourseCode: s.CourseCode}
	case pricing.SeniorProjectScope:
		t := fromTier(s.Tier)
		rj.Scope = ScopeJSON{Kind: string(pricing.ScopeSeniorProject), Tier: &t}
	case pricing.ReadingClassScope:
		t := fromTier(s.Tier)
		rj.Scope = ScopeJSON{Kind: string(pricing.ScopeReadingClass), Cycle: string(s.Cycle), Tier: &t}
	default:
		return RecordJSON{}, fmt.Errorf("unknown scope type %T", rec.Scope)
	}

	switch r := rec.Rate.(type) {
	case pricing.ResidencyRate:
		rj.Rate = RateJSON{Kind: string(pricing.RateResidency), Domestic: r.Domestic.String(), Foreign: r.Foreign.String()}
	case pricing.GroupRate:
		rj.Rate = RateJSON{Kind: string(pricing.RateGroup), Total: r.Total.String(), ForeignTotal: r.ForeignTotal.String()}
	case pricing.PerStudentRate:
		rj.Rate = RateJSON{Kind: string(pricing.RatePerStudent), PerStudent: r.PerStudent.String(), MinimumRevenue: r.MinimumRevenue.String()}
	default:
		return RecordJSON{}, fmt.Errorf("unknown rate type %T", rec.Rate)
	}
	return rj, nil
}
