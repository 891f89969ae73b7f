/*
config.go - Engine configuration

PURPOSE:
  Institutional knobs the engine cannot infer from data: which courses
  are senior projects, how reading classes are tagged, the senior
  project size tiers, and the tier-match tolerance. Loaded from YAML so
  registrars can adjust lists without a code change.

EXAMPLE (engine.yaml):
  senior_project_courses: ["SP-401", "SP-402"]
  reading_class_prefixes: ["IND-", "RD-"]
  tier_match_tolerance: "1.00"
  senior_project_tiers:
    - {label: "1", min: 1, max: 1}
    - {label: "2", min: 2, max: 2}
    - {label: "3+", min: 3, max: 0}
*/
package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config holds classifier and matcher settings.
type Config struct {
	// Courses priced as senior projects, highest classifier precedence.
	SeniorProjectCourses []string

	// Class-ID prefixes marking small individual-instruction classes.
	ReadingClassPrefixes []string

	// Senior-project size tiers in ascending size order. The first is
	// the conservative default when group size is unknown.
	SeniorProjectTiers []SizeTier

	// Reading-class size tiers in ascending size order.
	ReadingClassTiers []SizeTier

	// Tolerance for payment-driven tier matching.
	TierMatchTolerance Money
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		SeniorProjectTiers: []SizeTier{
			{Label: "1", Min: 1, Max: 1},
			{Label: "2", Min: 2, Max: 2},
			{Label: "3+", Min: 3, Max: 0},
		},
		ReadingClassTiers: []SizeTier{
			{Label: "1-2", Min: 1, Max: 2},
			{Label: "3-5", Min: 3, Max: 5},
			{Label: "6+", Min: 6, Max: 0},
		},
		TierMatchTolerance: NewMoney(1.00),
	}
}

// IsSeniorProjectCourse reports whether the course is on the configured
// senior-project list.
func (c Config) IsSeniorProjectCourse(courseCode string) bool {
	for _, code := range c.SeniorProjectCourses {
		if code == courseCode {
			return true
		}
	}
	return false
}

// IsReadingClass reports whether the class ID carries a reading-class tag.
func (c Config) IsReadingClass(classID string) bool {
	for _, prefix := range c.ReadingClassPrefixes {
		if strings.HasPrefix(classID, prefix) {
			return true
		}
	}
	return false
}

// ReadingClassTierFor selects the reading-class tier containing the
// observed size. Size 0 (unrecorded) falls back to the smallest tier.
func (c Config) ReadingClassTierFor(size int) (SizeTier, bool) {
	if len(c.ReadingClassTiers) == 0 {
		return SizeTier{}, false
	}
	if size <= 0 {
		return c.ReadingClassTiers[0], true
	}
	for _, t := range c.ReadingClassTiers {
		if t.Contains(size) {
			return t, true
		}
	}
	return SizeTier{}, false
}

// ConservativeSeniorTier returns the individual tier used when group
// size is unknown.
func (c Config) ConservativeSeniorTier() (SizeTier, bool) {
	if len(c.SeniorProjectTiers) == 0 {
		return SizeTier{}, false
	}
	return c.SeniorProjectTiers[0], true
}

// =============================================================================
// YAML LOADING
// =============================================================================

type configYAML struct {
	SeniorProjectCourses []string       `yaml:"senior_project_courses"`
	ReadingClassPrefixes []string       `yaml:"reading_class_prefixes"`
	TierMatchTolerance   string         `yaml:"tier_match_tolerance"`
	SeniorProjectTiers   []sizeTierYAML `yaml:"senior_project_tiers"`
	ReadingClassTiers    []sizeTierYAML `yaml:"reading_class_tiers"`
}

type sizeTierYAML struct {
	Label string `yaml:"label"`
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
}

// LoadConfig reads a YAML config file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes.
func ParseConfig(data []byte) (Config, error) {
	var raw configYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.SeniorProjectCourses = raw.SeniorProjectCourses
	cfg.ReadingClassPrefixes = raw.ReadingClassPrefixes

	if raw.TierMatchTolerance != "" {
		tol, ok := ParseMoney(raw.TierMatchTolerance)
		if !ok {
			return Config{}, fmt.Errorf("parse config: bad tier_match_tolerance %q", raw.TierMatchTolerance)
		}
		cfg.TierMatchTolerance = tol
	}
	if len(raw.SeniorProjectTiers) > 0 {
		cfg.SeniorProjectTiers = toSizeTiers(raw.SeniorProjectTiers)
	}
	if len(raw.ReadingClassTiers) > 0 {
		cfg.ReadingClassTiers = toSizeTiers(raw.ReadingClassTiers)
	}
	return cfg, nil
}

func toSizeTiers(raw []sizeTierYAML) []SizeTier {
	tiers := make([]SizeTier, 0, len(raw))
	for _, t := range raw {
		tiers = append(tiers, SizeTier{Label: t.Label, Min: t.Min, Max: t.Max})
	}
	return tiers
}
