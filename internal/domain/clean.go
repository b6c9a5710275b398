package domain

import "strings"

// countrySubstitutions collapses EDGAR country groupings onto the country
// that carries the ISO code. No replacement is itself a key, which keeps
// NormalizeCountryName idempotent.
var countrySubstitutions = map[string]string{
	"Italy, San Marino and the Holy See": "Italy",
	"Spain and Andorra":                  "Spain",
	"France and Monaco":                  "France",
}

// aggregateLabels are EDGAR rows that are not countries.
var aggregateLabels = map[string]struct{}{
	"GLOBAL TOTAL":           {},
	"EU27":                   {},
	"International Shipping": {},
	"International Aviation": {},
}

// naLabels are the spellings treated as a missing country name.
var naLabels = map[string]struct{}{
	"":      {},
	"NA":    {},
	"NaN":   {},
	"<nil>": {},
}

// NormalizeCountryName trims the name and applies the fixed substitution table.
func NormalizeCountryName(name string) string {
	name = strings.TrimSpace(name)
	if replacement, ok := countrySubstitutions[name]; ok {
		return replacement
	}
	return name
}

// IsAggregate reports whether name is an aggregate row that must not be
// charted as a country.
func IsAggregate(name string) bool {
	_, ok := aggregateLabels[strings.TrimSpace(name)]
	return ok
}

// IsBlankCountry reports whether name is empty or an NA marker.
func IsBlankCountry(name string) bool {
	_, ok := naLabels[strings.TrimSpace(name)]
	return ok
}

// CleanStats counts the emission rows read and the rows cleaning removed.
type CleanStats struct {
	Loaded     int
	Blank      int
	Aggregates int
}

// Kept returns the number of rows that survived cleaning.
func (s CleanStats) Kept() int {
	return s.Loaded - s.Blank - s.Aggregates
}
