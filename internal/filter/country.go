package filter

import "strings"

// countryCodes maps English country names to ISO 3166 alpha-2 codes.
var countryCodes = map[string]string{
	"Argentina":          "ar",
	"Australia":          "au",
	"Austria":            "at",
	"Belgium":            "be",
	"Brazil":             "br",
	"Bulgaria":           "bg",
	"Canada":             "ca",
	"Chile":              "cl",
	"China":              "cn",
	"Croatia":            "hr",
	"Czech Republic":     "cz",
	"Denmark":            "dk",
	"Estonia":            "ee",
	"Finland":            "fi",
	"France":             "fr",
	"Germany":            "de",
	"Greece":             "gr",
	"Hungary":            "hu",
	"Iceland":            "is",
	"India":              "in",
	"Ireland":            "ie",
	"Israel":             "il",
	"Italy":              "it",
	"Japan":              "jp",
	"Korea, Republic of": "kr",
	"Latvia":             "lv",
	"Lithuania":          "lt",
	"Luxembourg":         "lu",
	"Mexico":             "mx",
	"Netherlands":        "nl",
	"New Zealand":        "nz",
	"Norway":             "no",
	"Poland":             "pl",
	"Portugal":           "pt",
	"Romania":            "ro",
	"Russian Federation": "ru",
	"Singapore":          "sg",
	"Slovakia":           "sk",
	"Slovenia":           "si",
	"South Africa":       "za",
	"Spain":              "es",
	"Sweden":             "se",
	"Switzerland":        "ch",
	"Taiwan":             "tw",
	"Turkey":             "tr",
	"Ukraine":            "ua",
	"United Kingdom":     "gb",
	"United States":      "us",

	// common spellings
	"USA":             "us",
	"UK":              "gb",
	"South Korea":     "kr",
	"The Netherlands": "nl",
}

// CountryCode returns the lowercase two-letter code for a country name, or
// "" when the name is unknown.
func CountryCode(name string) string {
	return countryCodes[strings.TrimSpace(name)]
}
