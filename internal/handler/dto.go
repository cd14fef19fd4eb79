package handler

import "currency-converter/pkg/money"

// ConvertRequest is bound from the query string on GET and from the JSON
// body on POST. Round defaults to true.
type ConvertRequest struct {
	Amount *float64 `json:"amount" form:"amount" binding:"required"`
	From   string   `json:"from" form:"from" binding:"required"`
	To     string   `json:"to" form:"to" binding:"required"`
	Round  *bool    `json:"round" form:"round"`
}

type RatesPayload struct {
	Success    bool                        `json:"success"`
	Base       string                      `json:"base"`
	Rates      money.RateTable             `json:"rates"`
	Currencies map[string]money.Descriptor `json:"currencies"`
	Timestamp  int64                       `json:"timestamp"`
}

type ConvertPayload struct {
	Success   bool    `json:"success"`
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	Formatted string  `json:"formatted"`
}

type FormatPayload struct {
	Success   bool    `json:"success"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type CountryPayload struct {
	Success  bool             `json:"success"`
	Country  string           `json:"country"`
	Currency money.Descriptor `json:"currency"`
	Source   string           `json:"source"`
}

type ErrorPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
