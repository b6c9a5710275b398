package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// Source column names.
const (
	colCO2Year      = "decimal_year"
	colCO2Average   = "monthly_average"
	colEDGARCode    = "EDGAR Country Code"
	colCountry      = "Country"
	colSeaYear      = "fld3"
	colSeaGMSL      = "fld6"
	colCoastLength  = "Coastline Length"
	colCoastPerArea = "Coast/area (m/km2)"
	colNumericCode  = "numeric_code"
)

// LoadCO2 reads the monthly CO2 series and renames decimal_year to Year.
func LoadCO2(path string) ([]domain.CO2Reading, error) {
	df, err := readFrame(path, 0)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(df, colCO2Year, colCO2Average); err != nil {
		return nil, fmt.Errorf("co2: %w", err)
	}
	df = df.Rename("Year", colCO2Year)
	if df.Err != nil {
		return nil, fmt.Errorf("co2: %w", df.Err)
	}

	years := df.Col("Year").Float()
	averages := df.Col(colCO2Average).Float()
	out := make([]domain.CO2Reading, 0, len(years))
	for i := range years {
		if math.IsNaN(years[i]) || math.IsNaN(averages[i]) {
			continue
		}
		out = append(out, domain.CO2Reading{Year: years[i], MonthlyAverage: averages[i]})
	}
	return out, nil
}

// LoadEmissions reads the wide EDGAR table and applies the cleaning rules:
// blank and aggregate country rows are dropped and grouped names are
// substituted. Numeric codes are left unresolved for the caller.
func LoadEmissions(path string) (domain.WideEmissions, domain.CleanStats, error) {
	df, err := readFrame(path, 0, dataframe.WithTypes(map[string]series.Type{
		colEDGARCode: series.String,
		colCountry:   series.String,
	}))
	if err != nil {
		return domain.WideEmissions{}, domain.CleanStats{}, err
	}
	if err := requireColumns(df, colEDGARCode, colCountry); err != nil {
		return domain.WideEmissions{}, domain.CleanStats{}, fmt.Errorf("emissions: %w", err)
	}

	var yearCols []string
	var years []int
	for _, name := range df.Names() {
		if name == colEDGARCode || name == colCountry {
			continue
		}
		year, err := domain.ParseYearColumn(name)
		if err != nil {
			return domain.WideEmissions{}, domain.CleanStats{}, fmt.Errorf("emissions: %w", err)
		}
		yearCols = append(yearCols, name)
		years = append(years, year)
	}

	stats := domain.CleanStats{Loaded: df.Nrow()}
	df, stats = filterCountries(df, stats)
	wide := domain.WideEmissions{Years: years}
	if df.Nrow() == 0 {
		return wide, stats, nil
	}

	names := df.Col(colCountry).Records()
	for i := range names {
		names[i] = domain.NormalizeCountryName(names[i])
	}
	df = df.Mutate(series.New(names, series.String, colCountry))
	if df.Err != nil {
		return domain.WideEmissions{}, stats, fmt.Errorf("emissions: %w", df.Err)
	}

	codes := df.Col(colEDGARCode).Records()
	countries := df.Col(colCountry).Records()
	columns := make([][]float64, len(yearCols))
	for i, col := range yearCols {
		columns[i] = df.Col(col).Float()
	}

	wide.Rows = make([]domain.WideEmissionRow, df.Nrow())
	for r := range wide.Rows {
		values := make([]float64, len(yearCols))
		for c := range yearCols {
			values[c] = columns[c][r]
		}
		wide.Rows[r] = domain.WideEmissionRow{
			Code:        naToEmpty(codes[r]),
			Country:     countries[r],
			NumericCode: domain.UnresolvedCode,
			Values:      values,
		}
	}
	return wide, stats, nil
}

// filterCountries keeps rows whose country is neither blank nor an aggregate.
func filterCountries(df dataframe.DataFrame, stats domain.CleanStats) (dataframe.DataFrame, domain.CleanStats) {
	col := df.Col(colCountry)
	keep := make([]int, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		switch {
		case el.IsNA() || domain.IsBlankCountry(el.String()):
			stats.Blank++
		case domain.IsAggregate(el.String()):
			stats.Aggregates++
		default:
			keep = append(keep, i)
		}
	}
	if len(keep) == col.Len() {
		return df, stats
	}
	if len(keep) == 0 {
		return dataframe.New(series.New([]string{}, series.String, colCountry)), stats
	}
	return df.Subset(keep), stats
}

// LoadSeaLevel reads the GMSL series, renaming fld3/fld6 to decimal_year/GMSL_mm.
func LoadSeaLevel(path string) ([]domain.SeaLevelReading, error) {
	df, err := readFrame(path, 0)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(df, colSeaYear, colSeaGMSL); err != nil {
		return nil, fmt.Errorf("sea level: %w", err)
	}
	df = df.Rename("decimal_year", colSeaYear).Rename("GMSL_mm", colSeaGMSL)
	if df.Err != nil {
		return nil, fmt.Errorf("sea level: %w", df.Err)
	}

	years := df.Col("decimal_year").Float()
	levels := df.Col("GMSL_mm").Float()
	out := make([]domain.SeaLevelReading, 0, len(years))
	for i := range years {
		if math.IsNaN(years[i]) || math.IsNaN(levels[i]) {
			continue
		}
		out = append(out, domain.SeaLevelReading{DecimalYear: years[i], GMSLmm: levels[i]})
	}
	return out, nil
}

// LoadCoastlines reads the coastline table. Its header sits on the second
// line and numbers use thousands separators. When the file carries a
// numeric_code column, valid codes are kept; other rows are left unresolved.
func LoadCoastlines(path string) ([]domain.CoastlineRecord, error) {
	df, err := readFrame(path, 1, dataframe.DetectTypes(false))
	if err != nil {
		return nil, err
	}
	if err := requireColumns(df, colCountry, colCoastLength, colCoastPerArea); err != nil {
		return nil, fmt.Errorf("coastlines: %w", err)
	}

	countries := df.Col(colCountry).Records()
	lengths := df.Col(colCoastLength).Records()
	ratios := df.Col(colCoastPerArea).Records()
	var codes []string
	if hasColumn(df, colNumericCode) {
		codes = df.Col(colNumericCode).Records()
	}

	out := make([]domain.CoastlineRecord, 0, len(countries))
	for i, name := range countries {
		name = strings.TrimSpace(name)
		if domain.IsBlankCountry(name) {
			continue
		}
		rec := domain.CoastlineRecord{
			Country:      name,
			NumericCode:  domain.UnresolvedCode,
			CoastlineKm:  parseNumber(lengths[i]),
			CoastPerArea: parseNumber(ratios[i]),
		}
		if codes != nil {
			if code, err := strconv.Atoi(strings.TrimSpace(codes[i])); err == nil && code > 0 {
				rec.NumericCode = code
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func naToEmpty(s string) string {
	if s == "NaN" {
		return ""
	}
	return s
}
