package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-report/internal/domain"
)

func validDataset() *domain.Dataset {
	wide := domain.WideEmissions{
		Years: []int{1990, 1991},
		Rows: []domain.WideEmissionRow{
			{Code: "ESP", Country: "Spain", NumericCode: 724, Values: []float64{123.4, math.NaN()}},
			{Code: "XKX", Country: "Kosovo", NumericCode: domain.UnresolvedCode, Values: []float64{8, 9}},
		},
	}
	coasts := []domain.CoastlineRecord{
		{Country: "Spain", NumericCode: 724, CoastlineKm: 4964, CoastPerArea: 9.8},
		{Country: "Atlantis", NumericCode: domain.UnresolvedCode, CoastlineKm: 1000},
	}
	return &domain.Dataset{
		CO2:           []domain.CO2Reading{{Year: 1990.04, MonthlyAverage: 353.86}},
		Emissions:     domain.Melt(wide),
		SeaLevel:      []domain.SeaLevelReading{{DecimalYear: 1993.01, GMSLmm: -37.24}},
		Coastlines:    coasts,
		GeoCoastlines: domain.GeoJoin(coasts),
	}
}

func phaseByName(t *testing.T, phases []*Phase, name string) *Phase {
	t.Helper()
	for _, p := range phases {
		if p.Name == name {
			return p
		}
	}
	require.Failf(t, "phase not found", "%s", name)
	return nil
}

func TestRun_ValidDataset(t *testing.T) {
	phases := Run(validDataset())
	require.Len(t, phases, 5)
	for _, p := range phases {
		assert.True(t, p.Passed(), "%s: %v", p.Name, p.Errors)
	}
	assert.True(t, AllPassed(phases))
}

func TestRun_AggregateAndUnnormalized(t *testing.T) {
	ds := validDataset()
	ds.Emissions = append(ds.Emissions,
		domain.EmissionRecord{Code: "GLB", Country: "GLOBAL TOTAL", Year: 1990, Emissions: 1},
		domain.EmissionRecord{Code: "FRA", Country: "France and Monaco", Year: 1990, Emissions: 1},
	)

	p := phaseByName(t, Run(ds), "Emission countries cleaned")
	assert.Len(t, p.Errors, 2)
	assert.False(t, AllPassed(Run(ds)))
}

func TestRun_MeltShape(t *testing.T) {
	ds := validDataset()
	ds.Emissions = append(ds.Emissions, ds.Emissions[0])

	p := phaseByName(t, Run(ds), "Melt preserves rows x years")
	require.NotEmpty(t, p.Errors)
	assert.Contains(t, p.Errors[len(p.Errors)-1], "Spain")
}

func TestRun_GeoJoin(t *testing.T) {
	ds := validDataset()
	ds.GeoCoastlines = ds.Coastlines

	p := phaseByName(t, Run(ds), "Geographic join excludes unresolved")
	require.Len(t, p.Errors, 1)
	assert.Contains(t, p.Errors[0], "Atlantis")
}

func TestRun_NumericCodes(t *testing.T) {
	ds := validDataset()
	ds.Coastlines[0].NumericCode = 1200

	p := phaseByName(t, Run(ds), "Numeric codes in ISO range")
	assert.Len(t, p.Errors, 1)
}

func TestRun_TimeSeries(t *testing.T) {
	ds := validDataset()
	ds.SeaLevel = append(ds.SeaLevel, domain.SeaLevelReading{DecimalYear: 1994, GMSLmm: math.Inf(1)})

	p := phaseByName(t, Run(ds), "Time series values are finite")
	assert.Len(t, p.Errors, 1)
}
