package domain

import (
	"context"
	"errors"
	"log/slog"
)

// UnresolvedCode marks a country name that has no ISO 3166-1 numeric code.
const UnresolvedCode = -1

// ErrCountryNotFound is returned by resolvers when no country matches a name.
var ErrCountryNotFound = errors.New("country not found")

// CountryResolver maps free-text country names to ISO 3166-1 numeric codes.
type CountryResolver interface {
	ResolveNumeric(ctx context.Context, name string) (int, error)
}

// ResolveCountryCode looks up name and falls back to UnresolvedCode when the
// resolver is nil or fails. Failures are expected for regions and groupings
// and are only logged at debug level.
func ResolveCountryCode(ctx context.Context, resolver CountryResolver, name string, logger *slog.Logger) int {
	if resolver == nil {
		return UnresolvedCode
	}
	code, err := resolver.ResolveNumeric(ctx, name)
	if err != nil {
		logger.Debug("country not resolved", "country", name, "error", err)
		return UnresolvedCode
	}
	if code <= 0 {
		return UnresolvedCode
	}
	return code
}
