package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"currency-converter/internal/entity"
	"currency-converter/internal/usecase"
	"currency-converter/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ratesFailureMessage = "Failed to fetch exchange rates"

type CurrencyHandler struct {
	usecase usecase.RateUsecase
	logger  *logrus.Logger
}

func NewCurrencyHandler(usecase usecase.RateUsecase, logger *logrus.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *CurrencyHandler) Register(public, admin gin.IRoutes) {
	public.GET("/exchange-rates", h.GetExchangeRates)
	public.GET("/convert", h.ConvertCurrency)
	public.POST("/convert", h.ConvertCurrency)
	public.GET("/format", h.FormatPrice)
	public.GET("/currency/country", h.GetCurrencyByCountry)
	public.GET("/currencies", h.SupportedCurrencies)

	admin.DELETE("/cache", h.ClearCache)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidCurrency), errors.Is(err, entity.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, money.ErrRateNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *CurrencyHandler) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorPayload{Success: false, Error: msg})
}

func (h *CurrencyHandler) GetExchangeRates(c *gin.Context) {
	base := c.DefaultQuery("base", money.FallbackCurrency)

	var currencies []string
	if raw := c.Query("currencies"); raw != "" {
		for _, code := range strings.Split(raw, ",") {
			if code = strings.TrimSpace(code); code != "" {
				currencies = append(currencies, code)
			}
		}
	}

	resp, err := h.usecase.GetExchangeRates(c.Request.Context(), base, currencies)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCurrency) {
			h.fail(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).WithField("base", base).Error("Failed to serve exchange rates")
		h.fail(c, http.StatusInternalServerError, ratesFailureMessage)
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.usecase.CacheMaxAge().Seconds())))
	c.JSON(http.StatusOK, RatesPayload{
		Success:    true,
		Base:       resp.Base,
		Rates:      resp.Rates,
		Currencies: resp.Currencies,
		Timestamp:  resp.Timestamp.UnixMilli(),
	})
}

func (h *CurrencyHandler) ConvertCurrency(c *gin.Context) {
	var req ConvertRequest

	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		h.logger.WithError(err).Debug("Invalid convert request")
		h.fail(c, http.StatusBadRequest, "amount, from and to are required; amount must be a number")
		return
	}

	round := true
	if req.Round != nil {
		round = *req.Round
	}

	resp, err := h.usecase.ConvertCurrency(c.Request.Context(), *req.Amount, req.From, req.To, round)
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			h.logger.WithError(err).WithFields(logrus.Fields{"from": req.From, "to": req.To}).Error("Conversion failed")
			msg = ratesFailureMessage
		}
		h.fail(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, ConvertPayload{
		Success:   true,
		Amount:    resp.Amount,
		From:      resp.From,
		To:        resp.To,
		Rate:      resp.Rate,
		Converted: resp.Converted,
		Formatted: resp.Formatted,
	})
}

func (h *CurrencyHandler) FormatPrice(c *gin.Context) {
	amountStr := c.Query("amount")
	currency := c.Query("currency")

	if amountStr == "" || currency == "" {
		h.fail(c, http.StatusBadRequest, "missing required query parameters 'amount' and 'currency'")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid 'amount' parameter, must be a number")
		return
	}

	resp, err := h.usecase.FormatPrice(amount, currency)
	if err != nil {
		h.fail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, FormatPayload{
		Success:   true,
		Amount:    resp.Amount,
		Currency:  resp.Currency,
		Formatted: resp.Formatted,
	})
}

func (h *CurrencyHandler) GetCurrencyByCountry(c *gin.Context) {
	resp := h.usecase.GetCurrencyByCountry(c.Query("country"), c.GetHeader("Accept-Language"))

	c.JSON(http.StatusOK, CountryPayload{
		Success:  true,
		Country:  resp.Country,
		Currency: resp.Currency,
		Source:   resp.Source,
	})
}

func (h *CurrencyHandler) SupportedCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"currencies": h.usecase.SupportedCurrencies(),
	})
}

func (h *CurrencyHandler) ClearCache(c *gin.Context) {
	h.usecase.ClearCache()
	h.logger.WithField("client_ip", c.ClientIP()).Info("Rate cache cleared via admin endpoint")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Exchange rate cache cleared"})
}
