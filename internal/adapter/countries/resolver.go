package countries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/biter777/countries"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// maxQueryLen bounds the input fed to the edit-distance scan.
const maxQueryLen = 128

// aliases maps folded common and official names that ISO short names do not
// spell out. Entries whose naive containment would pick a neighbour (the two
// Congos, the two Koreas) must stay here.
var aliases = map[string]int{
	"republic of the congo":            178,
	"republic of congo":                178,
	"congo republic":                   178,
	"congo brazzaville":                178,
	"democratic republic of the congo": 180,
	"democratic republic of congo":     180,
	"dr congo":                         180,
	"congo kinshasa":                   180,
	"south korea":                      410,
	"republic of korea":                410,
	"north korea":                      408,
	"ivory coast":                      384,
	"russia":                           643,
	"iran":                             364,
	"syria":                            760,
	"laos":                             418,
	"vietnam":                          704,
	"bolivia":                          68,
	"venezuela":                        862,
	"tanzania":                         834,
	"moldova":                          498,
	"micronesia":                       583,
	"federated states of micronesia":   583,
	"brunei":                           96,
	"burma":                            104,
	"east timor":                       626,
	"cape verde":                       132,
	"eswatini":                         748,
	"swaziland":                        748,
	"the gambia":                       270,
	"the bahamas":                      44,
	"north macedonia":                  807,
	"palestine":                        275,
	"taiwan":                           158,
	"united states":                    840,
	"united kingdom":                   826,
}

// Resolver implements domain.CountryResolver against the ISO 3166-1 table
// shipped with github.com/biter777/countries.
type Resolver struct {
	entries     []entry
	maxDistance int
	logger      *slog.Logger
}

type entry struct {
	code  int
	names []string // folded: lower case, no diacritics, single spaces
}

// NewResolver builds the reference index. maxDistance is the largest
// Levenshtein distance accepted by the fuzzy pass; 0 disables it.
func NewResolver(maxDistance int, logger *slog.Logger) *Resolver {
	all := countries.All()
	entries := make([]entry, 0, len(all))
	for _, c := range all {
		if !c.IsValid() || int(c) <= 0 {
			continue
		}
		e := entry{code: int(c)}
		for _, n := range []string{c.String(), c.Alpha2(), c.Alpha3()} {
			if f := fold(n); f != "" {
				e.names = append(e.names, f)
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].code < entries[j].code })

	return &Resolver{entries: entries, maxDistance: maxDistance, logger: logger}
}

// ResolveNumeric returns the ISO numeric code for name, trying in order:
// the aliases table, the library's own name table, an exact
// folded name, word-level containment, and finally a bounded edit distance.
func (r *Resolver) ResolveNumeric(_ context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("resolve %q: %w", name, domain.ErrCountryNotFound)
	}
	if runes := []rune(name); len(runes) > maxQueryLen {
		name = string(runes[:maxQueryLen])
	}

	q := fold(name)
	if code, ok := aliases[q]; ok {
		return code, nil
	}
	if c := countries.ByName(name); c != countries.Unknown && c.IsValid() && int(c) > 0 {
		return int(c), nil
	}

	if q == "" {
		return 0, fmt.Errorf("resolve %q: %w", name, domain.ErrCountryNotFound)
	}
	if code, ok := r.exact(q); ok {
		return code, nil
	}
	if code, ok := r.containment(q); ok {
		r.logger.Debug("country matched by containment", "query", name, "code", code)
		return code, nil
	}
	if code, ok := r.nearest(q); ok {
		r.logger.Debug("country matched by edit distance", "query", name, "code", code)
		return code, nil
	}
	return 0, fmt.Errorf("resolve %q: %w", name, domain.ErrCountryNotFound)
}

func (r *Resolver) exact(q string) (int, bool) {
	for _, e := range r.entries {
		for _, n := range e.names {
			if n == q {
				return e.code, true
			}
		}
	}
	return 0, false
}

// containment matches whole-word sequences. A query that opens a longer
// reference name wins first, preferring the shortest such name, so ISO
// "X, Y of" names match their leading word ("micronesia" →
// "micronesia federated states of"). A leading qualifier never matches:
// "republic of the congo" does not match "democratic republic of the congo".
// Otherwise the reference name found earliest in the query wins, longer
// names breaking ties, so grouping rows resolve to their leading country
// ("switzerland and liechtenstein" → "switzerland").
// Two-letter and three-letter codes never take part.
func (r *Resolver) containment(q string) (int, bool) {
	bestCode, bestLen := 0, 0
	for _, e := range r.entries {
		for _, n := range e.names {
			if len(n) <= 3 || n == q {
				continue
			}
			if strings.HasPrefix(n+" ", q+" ") && (bestLen == 0 || len(n) < bestLen) {
				bestCode, bestLen = e.code, len(n)
			}
		}
	}
	if bestLen > 0 {
		return bestCode, true
	}

	padded := " " + q + " "
	bestPos := -1
	for _, e := range r.entries {
		for _, n := range e.names {
			if len(n) <= 3 {
				continue
			}
			pos := strings.Index(padded, " "+n+" ")
			if pos < 0 {
				continue
			}
			if bestPos < 0 || pos < bestPos || (pos == bestPos && len(n) > bestLen) {
				bestCode, bestPos, bestLen = e.code, pos, len(n)
			}
		}
	}
	return bestCode, bestPos >= 0
}

// nearest returns the reference name with the smallest edit distance when it
// is within both maxDistance and a quarter of the query length, so short
// names need near-exact spelling.
func (r *Resolver) nearest(q string) (int, bool) {
	limit := r.maxDistance
	if byLen := len([]rune(q)) / 4; byLen < limit {
		limit = byLen
	}
	if limit <= 0 {
		return 0, false
	}

	bestCode, bestDist := 0, limit+1
	for _, e := range r.entries {
		for _, n := range e.names {
			if len(n) <= 3 {
				continue
			}
			if d := levenshtein.ComputeDistance(q, n); d < bestDist {
				bestCode, bestDist = e.code, d
			}
		}
	}
	return bestCode, bestDist <= limit
}

// fold lower-cases s, strips diacritics, and collapses punctuation into
// single spaces: "Côte d'Ivoire" → "cote d ivoire".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
