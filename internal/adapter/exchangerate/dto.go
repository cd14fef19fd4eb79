package exchangerate

// LatestRates is the payload of GET {base_url}/{base}.
type LatestRates struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}
