package api

import (
	"time"

	"github.com/aluiziolira/go-live-dashboard/models"
)

// demoSnapshots is the fixed dataset served in degraded mode.
var demoSnapshots = []models.CryptoSnapshot{
	{ID: "demo-bitcoin", Name: "Bitcoin", Symbol: "BTC", Price: 43250.12, MarketCap: 847_000_000_000, Volume24h: 21_400_000_000, Change24h: 2.35, Rank: 1},
	{ID: "demo-ethereum", Name: "Ethereum", Symbol: "ETH", Price: 2280.55, MarketCap: 274_000_000_000, Volume24h: 11_800_000_000, Change24h: 1.87, Rank: 2},
	{ID: "demo-tether", Name: "Tether", Symbol: "USDT", Price: 1.0, MarketCap: 91_000_000_000, Volume24h: 38_500_000_000, Change24h: 0.01, Rank: 3},
	{ID: "demo-bnb", Name: "BNB", Symbol: "BNB", Price: 312.4, MarketCap: 48_000_000_000, Volume24h: 1_100_000_000, Change24h: -0.64, Rank: 4},
	{ID: "demo-solana", Name: "Solana", Symbol: "SOL", Price: 98.76, MarketCap: 42_000_000_000, Volume24h: 2_900_000_000, Change24h: 5.12, Rank: 5},
}

// DemoCryptoPage returns the demo dataset as a single synthetic page. Every
// call stamps the snapshots with the current time.
func DemoCryptoPage(q models.ListQuery) *models.PageResult[models.CryptoSnapshot] {
	now := time.Now().UTC()
	items := make([]models.CryptoSnapshot, len(demoSnapshots))
	for i, snapshot := range demoSnapshots {
		snapshot.Timestamp = now
		items[i] = snapshot
	}

	perPage := q.Limit
	if perPage <= 0 {
		perPage = len(items)
	}
	return &models.PageResult[models.CryptoSnapshot]{
		Items: items,
		Pagination: models.PaginationInfo{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   len(items),
			ItemsPerPage: perPage,
		},
		Fallback: true,
	}
}
