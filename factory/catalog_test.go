package factory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/tuition-engine/factory"
	"github.com/meridian/tuition-engine/pricing"
)

const sampleCatalog = `{
  "records": [
    {
      "id": "ba-default-2024",
      "scope": {"kind": "default", "cycle": "BA"},
      "effective": "2024-01-01",
      "rate": {"kind": "residency", "domestic": "250.00", "foreign": "350.00"}
    },
    {
      "id": "sp-2-2024",
      "scope": {"kind": "senior_project", "tier": {"label": "2", "min": 2, "max": 2}},
      "effective": "2024-01-01",
      "end": "2024-12-31",
      "rate": {"kind": "group", "total": "300.00", "foreign_total": "350.00"}
    },
    {
      "id": "rc-ba-2024",
      "scope": {"kind": "reading_class", "cycle": "BA", "tier": {"label": "1-2", "min": 1, "max": 2}},
      "effective": "2024-01-01",
      "rate": {"kind": "per_student", "per_student": "200.00", "minimum_revenue": "300.00"}
    }
  ]
}`

func TestParseCatalog_BuildsTypedRecords(t *testing.T) {
	records, err := factory.ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "default/BA", records[0].Scope.Key())
	rate, ok := records[0].Rate.(pricing.ResidencyRate)
	require.True(t, ok)
	assert.Equal(t, "250.00", rate.Domestic.String())

	assert.Equal(t, "senior_project/2", records[1].Scope.Key())
	require.NotNil(t, records[1].Range.End)
	assert.Equal(t, "2024-12-31", records[1].Range.End.String())

	assert.Equal(t, "reading_class/BA/1-2", records[2].Scope.Key())
	ps, ok := records[2].Rate.(pricing.PerStudentRate)
	require.True(t, ok)
	assert.Equal(t, "300.00", ps.MinimumRevenue.String())
}

func TestParseCatalog_FeedsCatalogDirectly(t *testing.T) {
	records, err := factory.ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)

	catalog, err := pricing.NewCatalog(records)
	require.NoError(t, err)

	rec, ok := catalog.Resolve(pricing.DefaultScope{Cycle: pricing.CycleBachelor}, pricing.NewDate(2024, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, "ba-default-2024", rec.ID)
}

func TestParseCatalog_RejectsUnknownKinds(t *testing.T) {
	bad := `{"records": [{"id": "x", "scope": {"kind": "mystery"}, "effective": "2024-01-01",
		"rate": {"kind": "residency", "domestic": "1.00", "foreign": "1.00"}}]}`
	_, err := factory.ParseCatalog([]byte(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scope kind")
}

func TestParseCatalog_RejectsBadAmount(t *testing.T) {
	bad := `{"records": [{"id": "x", "scope": {"kind": "default", "cycle": "BA"}, "effective": "2024-01-01",
		"rate": {"kind": "residency", "domestic": "cheap", "foreign": "1.00"}}]}`
	_, err := factory.ParseCatalog([]byte(bad))
	assert.Error(t, err)
}

func TestRecordToJSON_RoundTrips(t *testing.T) {
	records, err := factory.ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)

	for _, rec := range records {
		rj, err := factory.RecordToJSON(rec)
		require.NoError(t, err)

		data, err := json.Marshal(factory.CatalogJSON{Records: []factory.RecordJSON{rj}})
		require.NoError(t, err)

		back, err := factory.ParseCatalog(data)
		require.NoError(t, err)
		require.Len(t, back, 1)
		assert.Equal(t, rec.Scope.Key(), back[0].Scope.Key())
		assert.Equal(t, rec.Range.String(), back[0].Range.String())
	}
}

func TestDemoCatalog_IsWellFormed(t *testing.T) {
	catalog := factory.DemoCatalog()
	assert.Greater(t, catalog.Len(), 0)

	// The mid-2024 BA supersession resolves on both sides of the split.
	old, ok := catalog.Resolve(pricing.DefaultScope{Cycle: pricing.CycleBachelor}, pricing.NewDate(2024, time.June, 1))
	require.True(t, ok)
	cur, ok := catalog.Resolve(pricing.DefaultScope{Cycle: pricing.CycleBachelor}, pricing.NewDate(2024, time.August, 1))
	require.True(t, ok)
	assert.NotEqual(t, old.ID, cur.ID)
}
