package model

import "time"

// TodoStats is the aggregate snapshot reported by the schedulers.
type TodoStats struct {
	Total       int64     `json:"total"`
	Completed   int64     `json:"completed"`
	Open        int64     `json:"open"`
	Overdue     int64     `json:"overdue"`
	GeneratedAt time.Time `json:"generatedAt"`
}
