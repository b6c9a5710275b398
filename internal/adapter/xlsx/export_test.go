package xlsx

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/climate-report/internal/domain"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		CO2: []domain.CO2Reading{
			{Year: 1990.0411, MonthlyAverage: 353.86},
			{Year: 1990.125, MonthlyAverage: 354.5},
		},
		Emissions: []domain.EmissionRecord{
			{Code: "ESP", Country: "Spain", NumericCode: 724, Year: 1990, Emissions: 123.4},
			{Code: "DEU", Country: "Germany", NumericCode: 276, Year: 1990, Emissions: math.NaN()},
		},
		SeaLevel: []domain.SeaLevelReading{{DecimalYear: 1993.01, GMSLmm: -37.24}},
		Coastlines: []domain.CoastlineRecord{
			{Country: "Canada", NumericCode: 124, CoastlineKm: 202080, CoastPerArea: 20.2},
		},
	}
}

func TestSaveAs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveAs(path, testDataset()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCO2, SheetEmissions, SheetSeaLevel, SheetCoastlines}, f.GetSheetList())

	rows, err := f.GetRows(SheetEmissions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"EDGAR Country Code", "Country", "numeric_code", "Year", "Emissions"}, rows[0])
	assert.Equal(t, []string{"ESP", "Spain", "724", "1990", "123.4"}, rows[1])
	assert.Equal(t, []string{"DEU", "Germany", "276", "1990"}, rows[2], "missing value is left blank")

	rows, err = f.GetRows(SheetCO2)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = f.GetRows(SheetCoastlines)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Canada", rows[1][0])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testDataset()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetSeaLevel)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"decimal_year", "GMSL_mm"}, rows[0])
}

func TestWrite_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &domain.Dataset{}))
	assert.NotZero(t, buf.Len())
}
