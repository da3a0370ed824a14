package dto

// DailyCountsResponse carries one aligned label/count pair per calendar
// day, oldest first, ending at the current UTC day.
type DailyCountsResponse struct {
	EventType string   `json:"event_type"`
	Days      int      `json:"days"`
	Labels    []string `json:"labels"`
	Counts    []int    `json:"counts"`
}

// RateResponse reports the average daily event count over the window.
// Rate is rounded to two decimals for display.
type RateResponse struct {
	EventType string  `json:"event_type"`
	Days      int     `json:"days"`
	Rate      float64 `json:"rate"`
}
