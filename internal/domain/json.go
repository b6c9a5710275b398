package domain

import (
	"encoding/json"
	"math"
)

// MarshalJSON writes a missing emissions value as null.
func (r EmissionRecord) MarshalJSON() ([]byte, error) {
	type plain EmissionRecord
	return json.Marshal(struct {
		plain
		Emissions *float64 `json:"Emissions"`
	}{plain(r), nullable(r.Emissions)})
}

// MarshalJSON writes missing coastline measurements as null.
func (c CoastlineRecord) MarshalJSON() ([]byte, error) {
	type plain CoastlineRecord
	return json.Marshal(struct {
		plain
		CoastlineKm  *float64 `json:"Coastline Length"`
		CoastPerArea *float64 `json:"Coast/area (m/km2)"`
	}{plain(c), nullable(c.CoastlineKm), nullable(c.CoastPerArea)})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
