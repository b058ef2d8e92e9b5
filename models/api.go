package models

import (
	"encoding/json"
	"time"
)

// Keyed is implemented by list items that carry a server identity.
type Keyed interface {
	Key() string
}

// ScrapeResult is the acknowledgement of a scrape trigger. The scrape itself
// keeps running on the server after this is returned.
type ScrapeResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HealthStatus is the API health probe response.
type HealthStatus struct {
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	Uptime    float64    `json:"uptime,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
