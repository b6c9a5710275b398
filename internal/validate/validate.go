// Package validate checks a built dataset against the cleaning and reshaping
// rules the report relies on.
package validate

import (
	"fmt"
	"math"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// Phase is one named group of checks and the problems it found.
type Phase struct {
	Name   string
	Errors []string
}

func (p *Phase) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Passed reports whether the phase found no problems.
func (p *Phase) Passed() bool { return len(p.Errors) == 0 }

// Run executes every phase against ds.
func Run(ds *domain.Dataset) []*Phase {
	return []*Phase{
		cleanedCountries(ds.Emissions),
		meltShape(ds.Emissions),
		geoJoin(ds.Coastlines, ds.GeoCoastlines),
		numericCodes(ds),
		timeSeries(ds),
	}
}

// AllPassed reports whether every phase passed.
func AllPassed(phases []*Phase) bool {
	for _, p := range phases {
		if !p.Passed() {
			return false
		}
	}
	return true
}

func cleanedCountries(records []domain.EmissionRecord) *Phase {
	p := &Phase{Name: "Emission countries cleaned"}
	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.Country] {
			continue
		}
		seen[r.Country] = true
		switch {
		case domain.IsBlankCountry(r.Country):
			p.errorf("blank country (code %q)", r.Code)
		case domain.IsAggregate(r.Country):
			p.errorf("aggregate row %q", r.Country)
		case domain.NormalizeCountryName(r.Country) != r.Country:
			p.errorf("country %q is not normalized", r.Country)
		}
	}
	return p
}

type countryKey struct {
	code, country string
}

func meltShape(records []domain.EmissionRecord) *Phase {
	p := &Phase{Name: "Melt preserves rows x years"}
	countries := make(map[countryKey]struct{})
	years := make(map[int]struct{})
	cells := make(map[countryKey]map[int]int)
	for _, r := range records {
		k := countryKey{r.Code, r.Country}
		countries[k] = struct{}{}
		years[r.Year] = struct{}{}
		if cells[k] == nil {
			cells[k] = make(map[int]int)
		}
		cells[k][r.Year]++
	}

	if want := len(countries) * len(years); len(records) != want {
		p.errorf("%d records, want %d countries x %d years = %d", len(records), len(countries), len(years), want)
	}
	for k, byYear := range cells {
		for year, n := range byYear {
			if n > 1 {
				p.errorf("%s (%s) has %d records for %d", k.country, k.code, n, year)
			}
		}
	}
	return p
}

func geoJoin(coasts, geo []domain.CoastlineRecord) *Phase {
	p := &Phase{Name: "Geographic join excludes unresolved"}
	codes := make(map[int]bool, len(geo))
	for _, c := range geo {
		if !c.Resolved() {
			p.errorf("unresolved country %q in geographic join", c.Country)
		}
		if codes[c.NumericCode] {
			p.errorf("duplicate numeric code %d in geographic join", c.NumericCode)
		}
		codes[c.NumericCode] = true
	}
	if len(geo) > len(coasts) {
		p.errorf("geographic join has %d rows, more than the %d coastline rows", len(geo), len(coasts))
	}
	return p
}

func numericCodes(ds *domain.Dataset) *Phase {
	p := &Phase{Name: "Numeric codes in ISO range"}
	check := func(table, country string, code int) {
		if code != domain.UnresolvedCode && (code < 1 || code > 999) {
			p.errorf("%s: %q has numeric code %d", table, country, code)
		}
	}
	for _, r := range ds.Emissions {
		check("emissions", r.Country, r.NumericCode)
	}
	for _, c := range ds.Coastlines {
		check("coastlines", c.Country, c.NumericCode)
	}
	return p
}

func timeSeries(ds *domain.Dataset) *Phase {
	p := &Phase{Name: "Time series values are finite"}
	for i, r := range ds.CO2 {
		if !finite(r.Year) || !finite(r.MonthlyAverage) {
			p.errorf("co2 row %d is not finite", i)
		}
	}
	for i, r := range ds.SeaLevel {
		if !finite(r.DecimalYear) || !finite(r.GMSLmm) {
			p.errorf("sea level row %d is not finite", i)
		}
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
