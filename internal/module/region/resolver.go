package region

import (
	"strings"

	"go.uber.org/zap"
)

// Resolver maps country input to a region. Unknown input never fails a
// checkout session; it logs and falls back to the documented defaults.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a new region resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve maps a two-letter ISO country code to one of the fixed regions.
// Unknown codes resolve to DefaultRegion.
func (r *Resolver) Resolve(countryCode string) Region {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if reg, ok := countryRegions[code]; ok {
		return reg
	}
	r.logger.Warn("unmapped country code, using default region",
		zap.String("country_code", countryCode),
		zap.String("region", string(DefaultRegion)),
	)
	return DefaultRegion
}

// NormalizeCountry maps a free-text country name or ISO code to a
// two-letter ISO code. Unmapped names resolve to DefaultCountryCode.
func (r *Resolver) NormalizeCountry(country string) string {
	trimmed := strings.TrimSpace(country)
	if len(trimmed) == 2 {
		code := strings.ToUpper(trimmed)
		if _, ok := countryRegions[code]; ok {
			return code
		}
	}
	if code, ok := countryCodes[strings.ToLower(trimmed)]; ok {
		return code
	}
	r.logger.Warn("unmapped country name, using default country",
		zap.String("country", country),
		zap.String("country_code", DefaultCountryCode),
	)
	return DefaultCountryCode
}

// CountryName returns a display name for an ISO country code.
func (r *Resolver) CountryName(countryCode string) string {
	return countryName(strings.ToUpper(strings.TrimSpace(countryCode)))
}
