package pricing

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity point in time
// =============================================================================

// Date is a calendar day. Pricing records are effective at day
// granularity; time-of-day never participates in resolution.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02". Malformed input returns the zero Date
// and false so callers can coerce with a warning.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, false
	}
	return Date{Time: t}, true
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// =============================================================================
// EFFECTIVE DATE RANGE - Validity interval of one pricing record
// =============================================================================

// EffectiveDateRange is the interval over which a pricing record applies.
// A nil End marks the current, open-ended record for its scope.
type EffectiveDateRange struct {
	Effective Date
	End       *Date
}

// Contains reports whether the range covers the given date. Both ends
// are inclusive; an open-ended range covers everything from Effective on.
func (r EffectiveDateRange) Contains(d Date) bool {
	if d.Before(r.Effective) {
		return false
	}
	if r.End == nil {
		return true
	}
	return d.BeforeOrEqual(*r.End)
}

// IsOpen reports whether this is the current (open-ended) record.
func (r EffectiveDateRange) IsOpen() bool {
	return r.End == nil
}

// Overlaps reports whether two ranges share at least one day.
func (r EffectiveDateRange) Overlaps(other EffectiveDateRange) bool {
	// r starts after other ends: no overlap
	if other.End != nil && r.Effective.After(*other.End) {
		return false
	}
	// other starts after r ends: no overlap
	if r.End != nil && other.Effective.After(*r.End) {
		return false
	}
	return true
}

func (r EffectiveDateRange) String() string {
	if r.End == nil {
		return r.Effective.String() + "/open"
	}
	return r.Effective.String() + "/" + r.End.String()
}
