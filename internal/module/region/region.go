package region

// Region is one of the fixed geographic buckets used to select
// payment-gateway policy and regional pricing.
type Region string

const (
	NorthAmerica          Region = "north_america"
	WesternEurope         Region = "western_europe"
	EasternEuropeRussia   Region = "eastern_europe_russia"
	Africa                Region = "africa"
	LatinAmericaCaribbean Region = "latin_america_caribbean"
	MiddleEastAsiaPacific Region = "middle_east_asia_pacific"
	Australasia           Region = "australasia"
	GreaterChina          Region = "greater_china"
)

// DefaultRegion is returned for country codes with no mapping.
const DefaultRegion = MiddleEastAsiaPacific

// DefaultCountryCode is the fallback for unmapped country names.
const DefaultCountryCode = "US"

// All returns the fixed set of regions.
func All() []Region {
	return []Region{
		NorthAmerica,
		WesternEurope,
		EasternEuropeRussia,
		Africa,
		LatinAmericaCaribbean,
		MiddleEastAsiaPacific,
		Australasia,
		GreaterChina,
	}
}

// Valid reports whether r is one of the fixed regions.
func (r Region) Valid() bool {
	switch r {
	case NorthAmerica, WesternEurope, EasternEuropeRussia, Africa,
		LatinAmericaCaribbean, MiddleEastAsiaPacific, Australasia, GreaterChina:
		return true
	}
	return false
}

// DisplayName returns a human-readable region name.
func (r Region) DisplayName() string {
	switch r {
	case NorthAmerica:
		return "North America"
	case WesternEurope:
		return "Western Europe"
	case EasternEuropeRussia:
		return "Eastern Europe & Russia"
	case Africa:
		return "Africa"
	case LatinAmericaCaribbean:
		return "Latin America & Caribbean"
	case MiddleEastAsiaPacific:
		return "Middle East, Asia & Pacific"
	case Australasia:
		return "Australasia"
	case GreaterChina:
		return "Greater China"
	default:
		return string(r)
	}
}
