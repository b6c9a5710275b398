package domain

// GeoJoin returns the coastline records that can be joined to world geometry
// by ISO numeric code. Unresolved rows are dropped, and when two rows resolve
// to the same code the first one wins, matching a lookup transform that keys
// on the code.
func GeoJoin(coasts []CoastlineRecord) []CoastlineRecord {
	seen := make(map[int]struct{}, len(coasts))
	out := make([]CoastlineRecord, 0, len(coasts))
	for _, c := range coasts {
		if !c.Resolved() {
			continue
		}
		if _, dup := seen[c.NumericCode]; dup {
			continue
		}
		seen[c.NumericCode] = struct{}{}
		out = append(out, c)
	}
	return out
}

// UnresolvedCountries lists the names that did not join, in input order.
func UnresolvedCountries(coasts []CoastlineRecord) []string {
	var out []string
	for _, c := range coasts {
		if !c.Resolved() {
			out = append(out, c.Country)
		}
	}
	return out
}
