package usecase

import (
	"context"
	"time"

	"currency-converter/pkg/money"
)

type RateUsecase interface {
	GetExchangeRates(ctx context.Context, base string, currencies []string) (*RatesResponse, error)
	ConvertCurrency(ctx context.Context, amount float64, from, to string, round bool) (*ConversionResponse, error)
	FormatPrice(amount float64, currency string) (*FormatResponse, error)
	GetCurrencyByCountry(country, acceptLanguage string) *CountryCurrencyResponse
	SupportedCurrencies() []money.Descriptor
	WarmRates(ctx context.Context, bases []string) error
	ClearCache()
	CacheMaxAge() time.Duration
}
