package domain

import (
	"math"
	"time"
)

// CO2Reading is one monthly observation of atmospheric CO2.
type CO2Reading struct {
	Year           float64 `json:"Year"`            // decimal year, e.g. 1990.125
	MonthlyAverage float64 `json:"monthly_average"` // ppm
}

// WideEmissionRow is one country row of the EDGAR table before melting.
// Values[i] holds the emissions for the table's Years[i]; missing cells are NaN.
type WideEmissionRow struct {
	Code        string
	Country     string
	NumericCode int
	Values      []float64
}

// WideEmissions is the cleaned EDGAR table in its original wide layout.
type WideEmissions struct {
	Years []int
	Rows  []WideEmissionRow
}

// EmissionRecord is a single (country, year) emissions value in long form.
type EmissionRecord struct {
	Code        string  `json:"EDGAR Country Code"`
	Country     string  `json:"Country"`
	NumericCode int     `json:"numeric_code"`
	Year        int     `json:"Year"`
	Emissions   float64 `json:"Emissions"` // Mt CO2eq, NaN when the source cell was empty
}

// HasValue reports whether the record carries a measured emissions value.
func (r EmissionRecord) HasValue() bool {
	return !math.IsNaN(r.Emissions) && !math.IsInf(r.Emissions, 0)
}

// SeaLevelReading is one global mean sea level observation.
type SeaLevelReading struct {
	DecimalYear float64 `json:"decimal_year"`
	GMSLmm      float64 `json:"GMSL_mm"`
}

// CoastlineRecord describes a country's coastline.
type CoastlineRecord struct {
	Country      string  `json:"Country"`
	NumericCode  int     `json:"numeric_code"`
	CoastlineKm  float64 `json:"Coastline Length"`
	CoastPerArea float64 `json:"Coast/area (m/km2)"`
}

// Resolved reports whether the record has a usable ISO numeric code.
func (c CoastlineRecord) Resolved() bool {
	return c.NumericCode != UnresolvedCode
}

// Dataset is the cleaned, immutable input of the report.
type Dataset struct {
	CO2        []CO2Reading
	Emissions  []EmissionRecord
	SeaLevel   []SeaLevelReading
	Coastlines []CoastlineRecord

	// GeoCoastlines is Coastlines restricted to rows that joined to geometry.
	GeoCoastlines []CoastlineRecord

	GeneratedAt time.Time
}

// Summary returns row counts per table, keyed by table name.
func (d *Dataset) Summary() map[string]int {
	return map[string]int{
		"co2":            len(d.CO2),
		"emissions":      len(d.Emissions),
		"sea_level":      len(d.SeaLevel),
		"coastlines":     len(d.Coastlines),
		"geo_coastlines": len(d.GeoCoastlines),
	}
}
