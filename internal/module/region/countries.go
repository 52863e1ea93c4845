package region

// countryRegions maps two-letter ISO country codes to regions.
// Not every country is listed; unmapped codes resolve to DefaultRegion.
var countryRegions = map[string]Region{
	// North America
	"US": NorthAmerica,
	"CA": NorthAmerica,

	// Western Europe
	"GB": WesternEurope,
	"IE": WesternEurope,
	"FR": WesternEurope,
	"DE": WesternEurope,
	"NL": WesternEurope,
	"BE": WesternEurope,
	"LU": WesternEurope,
	"CH": WesternEurope,
	"AT": WesternEurope,
	"ES": WesternEurope,
	"PT": WesternEurope,
	"IT": WesternEurope,
	"DK": WesternEurope,
	"SE": WesternEurope,
	"NO": WesternEurope,
	"FI": WesternEurope,
	"IS": WesternEurope,
	"GR": WesternEurope,
	"MT": WesternEurope,
	"CY": WesternEurope,

	// Eastern Europe & Russia
	"RU": EasternEuropeRussia,
	"UA": EasternEuropeRussia,
	"BY": EasternEuropeRussia,
	"PL": EasternEuropeRussia,
	"CZ": EasternEuropeRussia,
	"SK": EasternEuropeRussia,
	"HU": EasternEuropeRussia,
	"RO": EasternEuropeRussia,
	"BG": EasternEuropeRussia,
	"RS": EasternEuropeRussia,
	"HR": EasternEuropeRussia,
	"SI": EasternEuropeRussia,
	"BA": EasternEuropeRussia,
	"MK": EasternEuropeRussia,
	"AL": EasternEuropeRussia,
	"MD": EasternEuropeRussia,
	"LT": EasternEuropeRussia,
	"LV": EasternEuropeRussia,
	"EE": EasternEuropeRussia,
	"GE": EasternEuropeRussia,
	"AM": EasternEuropeRussia,
	"AZ": EasternEuropeRussia,
	"KZ": EasternEuropeRussia,

	// Africa
	"ZA": Africa,
	"NG": Africa,
	"KE": Africa,
	"GH": Africa,
	"EG": Africa,
	"MA": Africa,
	"DZ": Africa,
	"TN": Africa,
	"ET": Africa,
	"TZ": Africa,
	"UG": Africa,
	"SN": Africa,
	"CI": Africa,
	"CM": Africa,
	"ZW": Africa,
	"ZM": Africa,
	"BW": Africa,
	"NA": Africa,
	"RW": Africa,
	"MU": Africa,

	// Latin America & Caribbean
	"MX": LatinAmericaCaribbean,
	"BR": LatinAmericaCaribbean,
	"AR": LatinAmericaCaribbean,
	"CL": LatinAmericaCaribbean,
	"CO": LatinAmericaCaribbean,
	"PE": LatinAmericaCaribbean,
	"VE": LatinAmericaCaribbean,
	"EC": LatinAmericaCaribbean,
	"BO": LatinAmericaCaribbean,
	"PY": LatinAmericaCaribbean,
	"UY": LatinAmericaCaribbean,
	"CR": LatinAmericaCaribbean,
	"PA": LatinAmericaCaribbean,
	"GT": LatinAmericaCaribbean,
	"HN": LatinAmericaCaribbean,
	"SV": LatinAmericaCaribbean,
	"NI": LatinAmericaCaribbean,
	"DO": LatinAmericaCaribbean,
	"CU": LatinAmericaCaribbean,
	"JM": LatinAmericaCaribbean,
	"TT": LatinAmericaCaribbean,
	"BS": LatinAmericaCaribbean,
	"BB": LatinAmericaCaribbean,

	// Middle East, Asia & Pacific
	"AE": MiddleEastAsiaPacific,
	"SA": MiddleEastAsiaPacific,
	"QA": MiddleEastAsiaPacific,
	"KW": MiddleEastAsiaPacific,
	"BH": MiddleEastAsiaPacific,
	"OM": MiddleEastAsiaPacific,
	"IL": MiddleEastAsiaPacific,
	"JO": MiddleEastAsiaPacific,
	"LB": MiddleEastAsiaPacific,
	"TR": MiddleEastAsiaPacific,
	"IN": MiddleEastAsiaPacific,
	"PK": MiddleEastAsiaPacific,
	"BD": MiddleEastAsiaPacific,
	"LK": MiddleEastAsiaPacific,
	"NP": MiddleEastAsiaPacific,
	"JP": MiddleEastAsiaPacific,
	"KR": MiddleEastAsiaPacific,
	"TH": MiddleEastAsiaPacific,
	"VN": MiddleEastAsiaPacific,
	"PH": MiddleEastAsiaPacific,
	"MY": MiddleEastAsiaPacific,
	"SG": MiddleEastAsiaPacific,
	"ID": MiddleEastAsiaPacific,
	"KH": MiddleEastAsiaPacific,
	"LA": MiddleEastAsiaPacific,
	"MM": MiddleEastAsiaPacific,
	"MN": MiddleEastAsiaPacific,
	"UZ": MiddleEastAsiaPacific,
	"FJ": MiddleEastAsiaPacific,
	"PG": MiddleEastAsiaPacific,

	// Australasia
	"AU": Australasia,
	"NZ": Australasia,

	// Greater China
	"CN": GreaterChina,
	"HK": GreaterChina,
	"MO": GreaterChina,
	"TW": GreaterChina,
}

// countryCodes maps lowercase free-text country names to ISO codes.
// The UI sends country names as typed or picked by the user; this table
// absorbs the common spellings. Unmapped names fall back to DefaultCountryCode.
var countryCodes = map[string]string{
	"united states":            "US",
	"united states of america": "US",
	"usa":                      "US",
	"canada":                   "CA",
	"united kingdom":           "GB",
	"uk":                       "GB",
	"great britain":            "GB",
	"england":                  "GB",
	"ireland":                  "IE",
	"france":                   "FR",
	"germany":                  "DE",
	"netherlands":              "NL",
	"belgium":                  "BE",
	"luxembourg":               "LU",
	"switzerland":              "CH",
	"austria":                  "AT",
	"spain":                    "ES",
	"portugal":                 "PT",
	"italy":                    "IT",
	"denmark":                  "DK",
	"sweden":                   "SE",
	"norway":                   "NO",
	"finland":                  "FI",
	"iceland":                  "IS",
	"greece":                   "GR",
	"russia":                   "RU",
	"russian federation":       "RU",
	"ukraine":                  "UA",
	"belarus":                  "BY",
	"poland":                   "PL",
	"czech republic":           "CZ",
	"czechia":                  "CZ",
	"slovakia":                 "SK",
	"hungary":                  "HU",
	"romania":                  "RO",
	"bulgaria":                 "BG",
	"serbia":                   "RS",
	"croatia":                  "HR",
	"slovenia":                 "SI",
	"lithuania":                "LT",
	"latvia":                   "LV",
	"estonia":                  "EE",
	"georgia":                  "GE",
	"kazakhstan":               "KZ",
	"south africa":             "ZA",
	"nigeria":                  "NG",
	"kenya":                    "KE",
	"ghana":                    "GH",
	"egypt":                    "EG",
	"morocco":                  "MA",
	"algeria":                  "DZ",
	"tunisia":                  "TN",
	"ethiopia":                 "ET",
	"tanzania":                 "TZ",
	"uganda":                   "UG",
	"senegal":                  "SN",
	"zimbabwe":                 "ZW",
	"zambia":                   "ZM",
	"rwanda":                   "RW",
	"mexico":                   "MX",
	"brazil":                   "BR",
	"argentina":                "AR",
	"chile":                    "CL",
	"colombia":                 "CO",
	"peru":                     "PE",
	"venezuela":                "VE",
	"ecuador":                  "EC",
	"bolivia":                  "BO",
	"paraguay":                 "PY",
	"uruguay":                  "UY",
	"costa rica":               "CR",
	"panama":                   "PA",
	"guatemala":                "GT",
	"honduras":                 "HN",
	"el salvador":              "SV",
	"nicaragua":                "NI",
	"dominican republic":       "DO",
	"cuba":                     "CU",
	"jamaica":                  "JM",
	"trinidad and tobago":      "TT",
	"united arab emirates":     "AE",
	"uae":                      "AE",
	"saudi arabia":             "SA",
	"qatar":                    "QA",
	"kuwait":                   "KW",
	"bahrain":                  "BH",
	"oman":                     "OM",
	"israel":                   "IL",
	"jordan":                   "JO",
	"lebanon":                  "LB",
	"turkey":                   "TR",
	"india":                    "IN",
	"pakistan":                 "PK",
	"bangladesh":               "BD",
	"sri lanka":                "LK",
	"nepal":                    "NP",
	"japan":                    "JP",
	"south korea":              "KR",
	"korea":                    "KR",
	"thailand":                 "TH",
	"vietnam":                  "VN",
	"philippines":              "PH",
	"malaysia":                 "MY",
	"singapore":                "SG",
	"indonesia":                "ID",
	"mongolia":                 "MN",
	"uzbekistan":               "UZ",
	"fiji":                     "FJ",
	"australia":                "AU",
	"new zealand":              "NZ",
	"china":                    "CN",
	"people's republic of china": "CN",
	"hong kong":                "HK",
	"macau":                    "MO",
	"macao":                    "MO",
	"taiwan":                   "TW",
}

// countryNames maps ISO codes to display names for the
// gateway-recommendation response. Codes without an entry are echoed back.
var countryNames = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"GB": "United Kingdom",
	"IE": "Ireland",
	"FR": "France",
	"DE": "Germany",
	"NL": "Netherlands",
	"ES": "Spain",
	"PT": "Portugal",
	"IT": "Italy",
	"CH": "Switzerland",
	"AT": "Austria",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"FI": "Finland",
	"RU": "Russia",
	"UA": "Ukraine",
	"PL": "Poland",
	"CZ": "Czechia",
	"RO": "Romania",
	"ZA": "South Africa",
	"NG": "Nigeria",
	"KE": "Kenya",
	"EG": "Egypt",
	"MX": "Mexico",
	"BR": "Brazil",
	"AR": "Argentina",
	"CL": "Chile",
	"CO": "Colombia",
	"PE": "Peru",
	"AE": "United Arab Emirates",
	"SA": "Saudi Arabia",
	"IL": "Israel",
	"TR": "Turkey",
	"IN": "India",
	"PK": "Pakistan",
	"JP": "Japan",
	"KR": "South Korea",
	"SG": "Singapore",
	"MY": "Malaysia",
	"TH": "Thailand",
	"VN": "Vietnam",
	"PH": "Philippines",
	"ID": "Indonesia",
	"AU": "Australia",
	"NZ": "New Zealand",
	"CN": "China",
	"HK": "Hong Kong",
	"TW": "Taiwan",
	"MO": "Macau",
}

func countryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}
