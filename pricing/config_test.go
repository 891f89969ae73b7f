package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/tuition-engine/pricing"
)

func TestParseConfig_OverridesDefaults(t *testing.T) {
	yaml := `
senior_project_courses: ["SP-401", "SP-402"]
reading_class_prefixes: ["IND-"]
tier_match_tolerance: "2.50"
senior_project_tiers:
  - {label: "1", min: 1, max: 1}
  - {label: "2+", min: 2, max: 0}
`
	cfg, err := pricing.ParseConfig([]byte(yaml))
	require.NoError(t, err)

	assert.True(t, cfg.IsSeniorProjectCourse("SP-402"))
	assert.False(t, cfg.IsSeniorProjectCourse("MATH-101"))
	assert.True(t, cfg.IsReadingClass("IND-7"))
	assert.Equal(t, "2.50", cfg.TierMatchTolerance.String())
	require.Len(t, cfg.SeniorProjectTiers, 2)
	assert.Equal(t, "2+", cfg.SeniorProjectTiers[1].Label)

	// Unset sections keep defaults.
	assert.NotEmpty(t, cfg.ReadingClassTiers)
}

func TestParseConfig_BadTolerance(t *testing.T) {
	_, err := pricing.ParseConfig([]byte(`tier_match_tolerance: "a lot"`))
	assert.Error(t, err)
}

func TestConfig_ReadingClassTierFor(t *testing.T) {
	cfg := pricing.DefaultConfig()

	tier, ok := cfg.ReadingClassTierFor(1)
	require.True(t, ok)
	assert.Equal(t, "1-2", tier.Label)

	tier, ok = cfg.ReadingClassTierFor(4)
	require.True(t, ok)
	assert.Equal(t, "3-5", tier.Label)

	tier, ok = cfg.ReadingClassTierFor(12)
	require.True(t, ok)
	assert.Equal(t, "6+", tier.Label, "unbounded top tier")

	tier, ok = cfg.ReadingClassTierFor(0)
	require.True(t, ok)
	assert.Equal(t, "1-2", tier.Label, "unrecorded size falls back to smallest tier")
}

func TestConfig_ConservativeSeniorTier(t *testing.T) {
	cfg := pricing.DefaultConfig()
	tier, ok := cfg.ConservativeSeniorTier()
	require.True(t, ok)
	assert.True(t, tier.IsIndividual())
}
