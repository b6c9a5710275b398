// Package domain models the climate datasets behind the report and the
// cleaning rules applied to them.
//
// # Data Sources
//
// Four static CSV files are loaded once at startup:
//
//	mean_co2_ppm.csv        NOAA/NASA monthly mean atmospheric CO2 (ppm)
//	ghg_EDGAR_country.csv   EDGAR greenhouse-gas emissions, one column per year
//	sea_level.csv           NASA global mean sea level (GMSL) variation in mm
//	coastline_lengths.csv   coastline length and coast/area ratio per country
//
// # Emissions Conventions
//
// The EDGAR table is wide: the identifier columns "EDGAR Country Code" and
// "Country" are followed by one column per year ("1970" ... "2022"). Values are
// megatonnes of CO2 equivalent (Mt CO2eq). Cleaning removes:
//
//	GLOBAL TOTAL, EU27              aggregates over other rows
//	International Shipping/Aviation bunker fuels not attributed to a country
//	blank country names
//
// and collapses three EDGAR groupings onto their principal country so they can
// be matched against ISO 3166-1:
//
//	"Italy, San Marino and the Holy See" → "Italy"
//	"Spain and Andorra"                  → "Spain"
//	"France and Monaco"                  → "France"
//
// The cleaned table is melted to long form (Country, Year, Emissions). Missing
// cells stay in the long table as NaN so the reshape is lossless; consumers
// that plot or rank values skip them.
//
// # Country Codes
//
// Country names are mapped to ISO 3166-1 numeric codes, the key used by the
// world-110m TopoJSON geometry. Matching is best effort. A name that cannot be
// resolved gets [UnresolvedCode] and is excluded from the geographic join by
// [GeoJoin], while staying in every tabular view.
package domain
