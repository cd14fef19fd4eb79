package usecase

import (
	"time"

	"currency-converter/pkg/money"
)

type RatesResponse struct {
	Base       string
	Rates      money.RateTable
	Currencies map[string]money.Descriptor
	Timestamp  time.Time
}

type ConversionResponse struct {
	Amount    float64
	From      string
	To        string
	Rate      float64
	Converted float64
	Formatted string
}

type FormatResponse struct {
	Amount    float64
	Currency  string
	Formatted string
}

// Where GetCurrencyByCountry took its region from.
const (
	SourceCountry        = "country"
	SourceAcceptLanguage = "accept-language"
	SourceDefault        = "default"
)

type CountryCurrencyResponse struct {
	Country  string
	Currency money.Descriptor
	Source   string
}
