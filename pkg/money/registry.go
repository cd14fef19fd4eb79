// Package money holds the currency catalogue and the pure conversion and
// formatting rules shared by the rate service and any client bundle that
// needs to render prices the same way.
package money

import "sort"

type Placement string

const (
	Prefix Placement = "prefix"
	Suffix Placement = "suffix"
)

// FallbackCurrency is returned for countries without a mapping.
const FallbackCurrency = "USD"

type Descriptor struct {
	Code      string    `json:"code"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Placement Placement `json:"placement"`
}

var registry = map[string]Descriptor{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Placement: Prefix},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Placement: Suffix},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Placement: Prefix},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Placement: Prefix},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Placement: Prefix},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Placement: Prefix},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Placement: Prefix},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Placement: Prefix},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", Placement: Prefix},
	"SEK": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona", Placement: Suffix},
	"NZD": {Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar", Placement: Prefix},
	"MXN": {Code: "MXN", Symbol: "MX$", Name: "Mexican Peso", Placement: Prefix},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Placement: Prefix},
	"HKD": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", Placement: Prefix},
	"NOK": {Code: "NOK", Symbol: "kr", Name: "Norwegian Krone", Placement: Suffix},
	"DKK": {Code: "DKK", Symbol: "kr", Name: "Danish Krone", Placement: Suffix},
	"KRW": {Code: "KRW", Symbol: "₩", Name: "South Korean Won", Placement: Prefix},
	"TRY": {Code: "TRY", Symbol: "₺", Name: "Turkish Lira", Placement: Prefix},
	"RUB": {Code: "RUB", Symbol: "₽", Name: "Russian Ruble", Placement: Prefix},
	"BRL": {Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Placement: Prefix},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African Rand", Placement: Prefix},
}

var countryCurrency = map[string]string{
	"US": "USD",
	"CA": "CAD",
	"GB": "GBP",
	"AU": "AUD",
	"NZ": "NZD",
	"IN": "INR",
	"JP": "JPY",
	"CN": "CNY",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"BE": "EUR",
	"AT": "EUR",
	"IE": "EUR",
	"PT": "EUR",
	"FI": "EUR",
	"GR": "EUR",
	"CH": "CHF",
	"SE": "SEK",
	"NO": "NOK",
	"DK": "DKK",
	"MX": "MXN",
	"SG": "SGD",
	"HK": "HKD",
	"KR": "KRW",
	"TR": "TRY",
	"RU": "RUB",
	"BR": "BRL",
	"ZA": "ZAR",
}

// Describe returns the registry entry for an exact currency code.
func Describe(code string) (Descriptor, bool) {
	d, ok := registry[code]
	return d, ok
}

// Supported lists every registered currency ordered by code.
func Supported() []Descriptor {
	list := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Catalogue returns the registry keyed by code. The map is a copy.
func Catalogue() map[string]Descriptor {
	out := make(map[string]Descriptor, len(registry))
	for code, d := range registry {
		out[code] = d
	}
	return out
}

func DefaultCurrencyForCountry(countryCode string) string {
	if code, ok := countryCurrency[countryCode]; ok {
		return code
	}
	return FallbackCurrency
}
