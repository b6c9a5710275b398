// Package xlsx exports the cleaned report tables as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// Sheet names, one per table.
const (
	SheetCO2        = "co2"
	SheetEmissions  = "emissions"
	SheetSeaLevel   = "sea_level"
	SheetCoastlines = "coastlines"
)

const defaultSheet = "Sheet1"

// Write builds the workbook for ds and writes it to w.
func Write(w io.Writer, ds *domain.Dataset) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs builds the workbook for ds and saves it to path.
func SaveAs(path string, ds *domain.Dataset) error {
	f, err := build(ds)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func build(ds *domain.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetCO2); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	co2 := make([][]any, len(ds.CO2))
	for i, r := range ds.CO2 {
		co2[i] = []any{r.Year, r.MonthlyAverage}
	}
	emissions := make([][]any, len(ds.Emissions))
	for i, r := range ds.Emissions {
		emissions[i] = []any{r.Code, r.Country, r.NumericCode, r.Year, cell(r.Emissions)}
	}
	sea := make([][]any, len(ds.SeaLevel))
	for i, r := range ds.SeaLevel {
		sea[i] = []any{r.DecimalYear, r.GMSLmm}
	}
	coasts := make([][]any, len(ds.Coastlines))
	for i, r := range ds.Coastlines {
		coasts[i] = []any{r.Country, r.NumericCode, cell(r.CoastlineKm), cell(r.CoastPerArea)}
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{SheetCO2, []any{"Year", "monthly_average"}, co2},
		{SheetEmissions, []any{"EDGAR Country Code", "Country", "numeric_code", "Year", "Emissions"}, emissions},
		{SheetSeaLevel, []any{"decimal_year", "GMSL_mm"}, sea},
		{SheetCoastlines, []any{"Country", "numeric_code", "Coastline Length", "Coast/area (m/km2)"}, coasts},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if idx, err := f.GetSheetIndex(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	} else if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	for i := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &rows[i]); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

// cell leaves missing values blank.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
