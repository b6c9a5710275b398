package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseYearColumn converts a wide-table column header into a year.
func ParseYearColumn(name string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("year column %q: %w", name, err)
	}
	return year, nil
}

// Melt reshapes the wide emissions table into one record per (country, year).
//
// Records are emitted year-major: every row for Years[0], then every row for
// Years[1], and so on. The output always holds len(Rows)*len(Years) records;
// missing cells are carried as NaN rather than dropped.
func Melt(wide WideEmissions) []EmissionRecord {
	out := make([]EmissionRecord, 0, len(wide.Rows)*len(wide.Years))
	for yi, year := range wide.Years {
		for _, row := range wide.Rows {
			out = append(out, EmissionRecord{
				Code:        row.Code,
				Country:     row.Country,
				NumericCode: row.NumericCode,
				Year:        year,
				Emissions:   valueAt(row.Values, yi),
			})
		}
	}
	return out
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return nan
}
