package usecase

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"currency-converter/internal/entity"
	"currency-converter/internal/service"
	"currency-converter/pkg/money"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
)

type CurrencyUsecase struct {
	service service.RateService
	logger  *logrus.Logger
	now     func() time.Time
}

func NewCurrencyUsecase(service service.RateService, logger *logrus.Logger) *CurrencyUsecase {
	return &CurrencyUsecase{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

var charCodeRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

func normalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !charCodeRegexp.MatchString(c) {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidCurrency, code)
	}
	return c, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidAmount, amount)
	}
	return nil
}

func (uc *CurrencyUsecase) GetExchangeRates(ctx context.Context, base string, currencies []string) (*RatesResponse, error) {
	if strings.TrimSpace(base) == "" {
		base = money.FallbackCurrency
	}
	code, err := normalizeCode(base)
	if err != nil {
		uc.logger.Warnf("Bad base currency format %q", base)
		return nil, err
	}

	rates, err := uc.service.GetRates(ctx, code)
	if err != nil {
		uc.logger.WithError(err).WithField("base", code).Error("Failed to get exchange rates")
		return nil, err
	}

	if len(currencies) > 0 {
		wanted := make([]string, 0, len(currencies))
		for _, c := range currencies {
			if normalized, err := normalizeCode(c); err == nil {
				wanted = append(wanted, normalized)
			}
		}
		rates = rates.Filter(wanted)
	}

	return &RatesResponse{
		Base:       code,
		Rates:      rates,
		Currencies: money.Catalogue(),
		Timestamp:  uc.now(),
	}, nil
}

func (uc *CurrencyUsecase) ConvertCurrency(ctx context.Context, amount float64, from, to string, round bool) (*ConversionResponse, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	fromCode, err := normalizeCode(from)
	if err != nil {
		return nil, err
	}
	toCode, err := normalizeCode(to)
	if err != nil {
		return nil, err
	}

	var rates money.RateTable
	if fromCode != toCode {
		rates, err = uc.service.GetRates(ctx, fromCode)
		if err != nil {
			uc.logger.WithError(err).WithField("base", fromCode).Error("Failed to get rates for conversion")
			return nil, err
		}
	}

	converted, err := money.Convert(amount, fromCode, toCode, rates, round)
	if err != nil {
		uc.logger.WithFields(logrus.Fields{"from": fromCode, "to": toCode}).Warn("No exchange rate for pair")
		return nil, err
	}

	rate := 1.0
	if fromCode != toCode {
		rate, _ = rates.Rate(toCode)
	}

	uc.logger.Debugf("Converted %.4f %s to %.4f %s", amount, fromCode, converted, toCode)

	return &ConversionResponse{
		Amount:    amount,
		From:      fromCode,
		To:        toCode,
		Rate:      rate,
		Converted: converted,
		Formatted: money.Format(converted, toCode),
	}, nil
}

func (uc *CurrencyUsecase) FormatPrice(amount float64, currency string) (*FormatResponse, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	code, err := normalizeCode(currency)
	if err != nil {
		return nil, err
	}

	return &FormatResponse{
		Amount:    amount,
		Currency:  code,
		Formatted: money.Format(amount, code),
	}, nil
}

// GetCurrencyByCountry maps a country (alpha-2, alpha-3 or numeric) to its
// default currency. Without a usable country the first region found in the
// Accept-Language header is used; failing both, USD.
func (uc *CurrencyUsecase) GetCurrencyByCountry(country, acceptLanguage string) *CountryCurrencyResponse {
	region, source := normalizeRegion(country), SourceCountry
	if region == "" {
		region, source = regionFromAcceptLanguage(acceptLanguage), SourceAcceptLanguage
	}
	if region == "" {
		source = SourceDefault
	}

	code := money.DefaultCurrencyForCountry(region)
	desc, _ := money.Describe(code)

	uc.logger.WithFields(logrus.Fields{
		"country":  region,
		"currency": code,
		"source":   source,
	}).Debug("Resolved currency for country")

	return &CountryCurrencyResponse{
		Country:  region,
		Currency: desc,
		Source:   source,
	}
}

func normalizeRegion(country string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return ""
	}
	region, err := language.ParseRegion(country)
	if err != nil {
		return ""
	}
	return region.String()
}

func regionFromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf != language.No {
			return region.String()
		}
	}
	return ""
}

func (uc *CurrencyUsecase) SupportedCurrencies() []money.Descriptor {
	return money.Supported()
}

// WarmRates refreshes each base in turn. A failing base does not stop the
// others; all failures are returned together.
func (uc *CurrencyUsecase) WarmRates(ctx context.Context, bases []string) error {
	var errs error
	warmed := 0
	for _, base := range bases {
		code, err := normalizeCode(base)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := uc.service.GetRates(ctx, code); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("warm %s: %w", code, err))
			continue
		}
		warmed++
	}

	uc.logger.WithFields(logrus.Fields{
		"requested": len(bases),
		"warmed":    warmed,
	}).Info("Exchange rate warm-up finished")

	return errs
}

func (uc *CurrencyUsecase) ClearCache() {
	uc.service.Clear()
}

func (uc *CurrencyUsecase) CacheMaxAge() time.Duration {
	return uc.service.TTL()
}
