package domain

import (
	"math"
	"sort"
)

// DefaultTopN is the number of emitters shown per year.
const DefaultTopN = 15

var nan = math.NaN()

// TopEmitters returns the n largest emitters for year, largest first. Records
// without a value are skipped; ties are broken by country name so the result
// is deterministic. n <= 0 returns every ranked record.
func TopEmitters(records []EmissionRecord, year, n int) []EmissionRecord {
	var ranked []EmissionRecord
	for _, r := range records {
		if r.Year == year && r.HasValue() {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Emissions != ranked[j].Emissions {
			return ranked[i].Emissions > ranked[j].Emissions
		}
		return ranked[i].Country < ranked[j].Country
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// YearRange returns the first and last year present in records, or zeros
// when records is empty.
func YearRange(records []EmissionRecord) (minYear, maxYear int) {
	for i, r := range records {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear
}

// MaxEmissions returns the largest measured value, used as the fixed upper
// bound of the emissions scale so bars stay comparable across years.
func MaxEmissions(records []EmissionRecord) float64 {
	var maxVal float64
	for _, r := range records {
		if r.HasValue() && r.Emissions > maxVal {
			maxVal = r.Emissions
		}
	}
	return maxVal
}

// ChartableEmissions drops records without a value. JSON cannot carry NaN.
func ChartableEmissions(records []EmissionRecord) []EmissionRecord {
	out := make([]EmissionRecord, 0, len(records))
	for _, r := range records {
		if r.HasValue() {
			out = append(out, r)
		}
	}
	return out
}
