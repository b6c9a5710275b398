package dataset

import (
	"context"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// FileSource reads the four report tables from CSV files on disk.
type FileSource struct {
	CO2Path       string
	EmissionsPath string
	SeaLevelPath  string
	CoastlinePath string
}

func (s FileSource) CO2(_ context.Context) ([]domain.CO2Reading, error) {
	return LoadCO2(s.CO2Path)
}

func (s FileSource) Emissions(_ context.Context) (domain.WideEmissions, domain.CleanStats, error) {
	return LoadEmissions(s.EmissionsPath)
}

func (s FileSource) SeaLevel(_ context.Context) ([]domain.SeaLevelReading, error) {
	return LoadSeaLevel(s.SeaLevelPath)
}

func (s FileSource) Coastlines(_ context.Context) ([]domain.CoastlineRecord, error) {
	return LoadCoastlines(s.CoastlinePath)
}
