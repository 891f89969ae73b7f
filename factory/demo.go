/*
demo.go - Demo catalog for local development

A small but realistic rate history: default tuition for three cycles
with one mid-2024 rate change, a fixed-price lab course, senior-project
tiers, and reading-class tiers with a minimum revenue floor.
*/
package factory

import (
	"time"

	"github.com/meridian/tuition-engine/pricing"
)

// DemoConfig returns engine settings matching the demo catalog.
func DemoConfig() pricing.Config {
	cfg := pricing.DefaultConfig()
	cfg.SeniorProjectCourses = []string{"SP-401"}
	cfg.ReadingClassPrefixes = []string{"IND-"}
	return cfg
}

// DemoRecords returns the demo rate history.
func DemoRecords() []pricing.PricingRecord {
	d := func(y int, m time.Month, day int) pricing.Date { return pricing.NewDate(y, m, day) }
	closed := func(y int, m time.Month, day int) *pricing.Date {
		end := d(y, m, day)
		return &end
	}

	tier1 := pricing.SizeTier{Label: "1", Min: 1, Max: 1}
	tier2 := pricing.SizeTier{Label: "2", Min: 2, Max: 2}
	tier3 := pricing.SizeTier{Label: "3+", Min: 3, Max: 0}
	small := pricing.SizeTier{Label: "1-2", Min: 1, Max: 2}
	mid := pricing.SizeTier{Label: "3-5", Min: 3, Max: 5}

	return []pricing.PricingRecord{
		// Default tuition, BA: superseded once mid-2024.
		{
			ID:    "ba-default-2023",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleBachelor},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1), End: closed(2024, time.June, 30)},
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(250.00), Foreign: pricing.NewMoney(350.00)},
		},
		{
			ID:    "ba-default-2024",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleBachelor},
			Range: pricing.EffectiveDateRange{Effective: d(2024, time.July, 1)},
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(275.00), Foreign: pricing.NewMoney(385.00)},
		},
		{
			ID:    "ma-default-2023",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleMaster},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(320.00), Foreign: pricing.NewMoney(450.00)},
		},
		{
			ID:    "lp-default-2023",
			Scope: pricing.DefaultScope{Cycle: pricing.CycleLanguage},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(180.00), Foreign: pricing.NewMoney(240.00)},
		},

		// Fixed-price lab course.
		{
			ID:    "chem-lab-2023",
			Scope: pricing.FixedScope{CourseCode: "CHEM-210L"},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.ResidencyRate{Domestic: pricing.NewMoney(410.00), Foreign: pricing.NewMoney(410.00)},
		},

		// Senior-project tiers.
		{
			ID:    "sp-1-2023",
			Scope: pricing.SeniorProjectScope{Tier: tier1},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(600.00), ForeignTotal: pricing.NewMoney(700.00)},
		},
		{
			ID:    "sp-2-2023",
			Scope: pricing.SeniorProjectScope{Tier: tier2},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(300.00), ForeignTotal: pricing.NewMoney(350.00)},
		},
		{
			ID:    "sp-3-2023",
			Scope: pricing.SeniorProjectScope{Tier: tier3},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.GroupRate{Total: pricing.NewMoney(220.00), ForeignTotal: pricing.NewMoney(260.00)},
		},

		// Reading classes, BA cycle.
		{
			ID:    "rc-ba-small-2023",
			Scope: pricing.ReadingClassScope{Cycle: pricing.CycleBachelor, Tier: small},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.PerStudentRate{PerStudent: pricing.NewMoney(200.00), MinimumRevenue: pricing.NewMoney(300.00)},
		},
		{
			ID:    "rc-ba-mid-2023",
			Scope: pricing.ReadingClassScope{Cycle: pricing.CycleBachelor, Tier: mid},
			Range: pricing.EffectiveDateRange{Effective: d(2023, time.January, 1)},
			Rate:  pricing.PerStudentRate{PerStudent: pricing.NewMoney(150.00), MinimumRevenue: pricing.NewMoney(450.00)},
		},
	}
}

// DemoCatalog builds the demo catalog. Panics only on a programming
// error in the fixture itself.
func DemoCatalog() *pricing.Catalog {
	catalog, err := pricing.NewCatalog(DemoRecords())
	if err != nil {
		panic("demo catalog is corrupt: " + err.Error())
	}
	return catalog
}
