package models

import "time"

// CryptoSnapshot is one market data point for a cryptocurrency.
type CryptoSnapshot struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	MarketCap float64   `json:"marketCap"`
	Volume24h float64   `json:"volume24h"`
	Change24h float64   `json:"change24h"`
	Rank      int       `json:"rank"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the snapshot identity.
func (c CryptoSnapshot) Key() string { return c.ID }

// CryptoStats is the server-side summary of the market feed.
type CryptoStats struct {
	TotalCrypto int             `json:"totalCrypto"`
	TodayCrypto int             `json:"todayCrypto"`
	TopCrypto   *CryptoSnapshot `json:"topCrypto,omitempty"`
	LastScrape  *time.Time      `json:"lastScrape,omitempty"`
}
