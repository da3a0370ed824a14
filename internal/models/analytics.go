package models

import "time"

// EventType names a countable event stream.
type EventType string

const (
	EventFeedback EventType = "feedback"
	EventLogin    EventType = "login"
)

// Valid reports whether the event type is known.
func (e EventType) Valid() bool {
	return e == EventFeedback || e == EventLogin
}

// DayBucket is the event count for one UTC calendar day.
type DayBucket struct {
	Day   string `db:"day" json:"date"`
	Count int    `db:"count" json:"count"`
}

// LoginEvent records one user login, feeding the login rate analytics.
type LoginEvent struct {
	ID       string    `db:"id" json:"id"`
	RollNo   string    `db:"roll_no" json:"roll_no"`
	LoggedAt time.Time `db:"logged_at" json:"date"`
}

// SystemMetrics is a lightweight runtime snapshot served alongside the
// Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"avg_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
