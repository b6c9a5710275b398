package report

import (
	"math"
	"strconv"

	"github.com/couchcryptid/climate-report/internal/domain"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a Vega-Lite chart specification, marshaled to JSON for vega-embed.
type Spec map[string]any

// Options controls chart parameters that are not derived from the data.
type Options struct {
	TopN          int
	WorldAtlasURL string
}

// Charts holds one spec per chart name.
type Charts map[string]Spec

// BuildCharts declares every chart of the report over ds.
func BuildCharts(ds *domain.Dataset, opts Options) Charts {
	return Charts{
		ChartCO2:        CO2Chart(ds.CO2),
		ChartEmissions:  EmissionsChart(ds.Emissions, opts.TopN),
		ChartSeaLevel:   SeaLevelChart(ds.SeaLevel),
		ChartCoastlines: CoastlineMaps(ds.GeoCoastlines, opts.WorldAtlasURL),
	}
}

// CO2Chart is the monthly CO2 line with x zoom and a nearest-point readout.
func CO2Chart(readings []domain.CO2Reading) Spec {
	values := make([]domain.CO2Reading, 0, len(readings))
	for _, r := range readings {
		if finite(r.Year) && finite(r.MonthlyAverage) {
			values = append(values, r)
		}
	}
	spec := timeSeries(values, "Year", "monthly_average", "CO2 (ppm)", [2]int{1961, 2023})
	spec["config"] = map[string]any{
		"axis": map[string]any{"labelFontSize": 12, "labelFont": "Roboto"},
	}
	return spec
}

// SeaLevelChart is the GMSL line with the same interaction layer as CO2Chart.
func SeaLevelChart(readings []domain.SeaLevelReading) Spec {
	values := make([]domain.SeaLevelReading, 0, len(readings))
	for _, r := range readings {
		if finite(r.DecimalYear) && finite(r.GMSLmm) {
			values = append(values, r)
		}
	}
	return timeSeries(values, "decimal_year", "GMSL_mm", "Global Mean Sea Level Variation (mm)", [2]int{1995, 2023})
}

// timeSeries layers a zoomable line, a hover rule, a highlighted point and
// a value label. The nearest selection is empty until the pointer moves.
func timeSeries(values any, xField, yField, yTitle string, xDomain [2]int) Spec {
	x := map[string]any{
		"field": xField,
		"type":  "quantitative",
		"title": "Year",
		"axis":  map[string]any{"format": "d", "title": nil},
		"scale": map[string]any{"domain": []int{xDomain[0], xDomain[1]}},
	}
	y := map[string]any{"field": yField, "type": "quantitative", "title": yTitle}
	nearestOnly := []any{map[string]any{"filter": map[string]any{"param": "nearest", "empty": false}}}

	return Spec{
		"$schema": vegaLiteSchema,
		"width":   "container",
		"height":  400,
		"data":    map[string]any{"values": values},
		"layer": []any{
			map[string]any{
				"mark": "line",
				"params": []any{map[string]any{
					"name":   "zoom",
					"select": map[string]any{"type": "interval", "encodings": []string{"x"}},
					"bind":   "scales",
				}},
				"encoding": map[string]any{"x": x, "y": y, "tooltip": map[string]any{"value": nil}},
			},
			map[string]any{
				"mark": map[string]any{"type": "rule", "size": 4, "color": "lightgray"},
				"params": []any{map[string]any{
					"name": "nearest",
					"select": map[string]any{
						"type":      "point",
						"on":        "mouseover",
						"nearest":   true,
						"encodings": []string{"x"},
					},
				}},
				"encoding": map[string]any{
					"x":       map[string]any{"field": xField, "type": "quantitative"},
					"opacity": condition(0.7, 0),
					"tooltip": map[string]any{"value": nil},
				},
			},
			map[string]any{
				"mark":      map[string]any{"type": "point", "size": 90, "color": "firebrick"},
				"transform": nearestOnly,
				"encoding":  map[string]any{"x": x, "y": y, "opacity": condition(1, 0)},
			},
			map[string]any{
				"mark":      map[string]any{"type": "text", "align": "left", "dx": -40, "dy": -15},
				"transform": nearestOnly,
				"encoding": map[string]any{
					"x": x,
					"y": y,
					"text": map[string]any{
						"condition": map[string]any{
							"param":  "nearest",
							"empty":  false,
							"field":  yField,
							"type":   "quantitative",
							"format": ".2f",
						},
						"value": " ",
					},
				},
			},
		},
	}
}

func condition(on, off float64) map[string]any {
	return map[string]any{
		"condition": map[string]any{"param": "nearest", "empty": false, "value": on},
		"value":     off,
	}
}

// EmissionsChart ranks emitters per year and shows the top n for the year
// picked on a slider. The slider spans the years in records and starts on
// the latest one; the x and color scales are fixed to [0, max] across years.
func EmissionsChart(records []domain.EmissionRecord, topN int) Spec {
	if topN <= 0 {
		topN = domain.DefaultTopN
	}
	values := domain.ChartableEmissions(records)
	minYear, maxYear := domain.YearRange(values)
	maxEmissions := domain.MaxEmissions(values)

	return Spec{
		"$schema": vegaLiteSchema,
		"width":   "container",
		"data":    map[string]any{"values": values},
		"params": []any{map[string]any{
			"name":   "Select",
			"select": map[string]any{"type": "point", "fields": []string{"Year"}},
			"bind":   map[string]any{"input": "range", "min": minYear, "max": maxYear, "step": 1},
			"value":  []any{map[string]any{"Year": maxYear}},
		}},
		"transform": []any{
			map[string]any{"filter": map[string]any{"param": "Select"}},
			map[string]any{
				"window":  []any{map[string]any{"op": "rank", "field": "Emissions", "as": "rank"}},
				"sort":    []any{map[string]any{"field": "Emissions", "order": "descending"}},
				"groupby": []string{"Year"},
			},
			map[string]any{"filter": "datum.rank <= " + strconv.Itoa(topN)},
		},
		"mark": "bar",
		"encoding": map[string]any{
			"y": map[string]any{
				"field": "Country",
				"type":  "nominal",
				"sort":  map[string]any{"field": "Emissions", "order": "descending"},
				"axis":  map[string]any{"title": nil},
			},
			"x": map[string]any{
				"field": "Emissions",
				"type":  "quantitative",
				"title": "Mton CO2 equivalent",
				"scale": map[string]any{"domain": []float64{0, maxEmissions}},
			},
			"color": map[string]any{
				"field":  "Emissions",
				"type":   "quantitative",
				"legend": map[string]any{"title": "Emissions (Mton CO2 eq)"},
				"scale":  map[string]any{"domain": []float64{0, maxEmissions}, "scheme": "reds"},
			},
			"tooltip": []any{
				map[string]any{"field": "Country", "type": "nominal"},
				map[string]any{"field": "Year", "type": "quantitative"},
				map[string]any{"field": "Emissions", "type": "quantitative"},
			},
		},
	}
}

// CoastlineMaps stacks two equal-earth choropleths: coastline length and
// coastline per area. Countries are looked up by ISO numeric code, so only
// joined records are passed in.
func CoastlineMaps(geo []domain.CoastlineRecord, atlasURL string) Spec {
	values := coastlineValues(geo)
	return Spec{
		"$schema": vegaLiteSchema,
		"vconcat": []any{
			choropleth(values, atlasURL, "Coastline Length", "Coastline Length (km)"),
			choropleth(values, atlasURL, "Coast/area (m/km2)", "Coast/area ratio (m/km2)"),
		},
		"resolve": map[string]any{"scale": map[string]any{"color": "independent"}},
	}
}

func choropleth(values []map[string]any, atlasURL, field, legend string) map[string]any {
	return map[string]any{
		"width":  600,
		"height": 450,
		"data": map[string]any{
			"url":    atlasURL,
			"format": map[string]any{"type": "topojson", "feature": "countries"},
		},
		"mark": map[string]any{"type": "geoshape", "stroke": "#aaa", "strokeWidth": 0.25},
		"transform": []any{map[string]any{
			"lookup": "id",
			"from": map[string]any{
				"data":   map[string]any{"values": values},
				"key":    "numeric_code",
				"fields": []string{"Country", field},
			},
		}},
		"projection": map[string]any{"type": "equalEarth"},
		"encoding": map[string]any{
			"color": map[string]any{
				"field":  field,
				"type":   "quantitative",
				"scale":  map[string]any{"type": "sqrt", "scheme": "yellowgreenblue"},
				"legend": map[string]any{"title": legend},
			},
			"tooltip": []any{
				map[string]any{"field": "Country", "type": "nominal"},
				map[string]any{"field": field, "type": "quantitative"},
			},
		},
	}
}

// coastlineValues converts records to lookup rows. Missing measurements are
// left out of the row so the map draws the country without a color.
func coastlineValues(geo []domain.CoastlineRecord) []map[string]any {
	out := make([]map[string]any, 0, len(geo))
	for _, c := range geo {
		row := map[string]any{"Country": c.Country, "numeric_code": c.NumericCode}
		if finite(c.CoastlineKm) {
			row["Coastline Length"] = c.CoastlineKm
		}
		if finite(c.CoastPerArea) {
			row["Coast/area (m/km2)"] = c.CoastPerArea
		}
		out = append(out, row)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
