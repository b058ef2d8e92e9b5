// Package view renders dashboard state for a terminal.
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aluiziolira/go-live-dashboard/models"
)

// UnknownTime is shown for a missing timestamp.
const UnknownTime = "Unknown time"

// FormatPrice renders a price in dollars: two decimals from one dollar up,
// six below it so small coins stay readable.
func FormatPrice(price float64) string {
	if price >= 1 {
		return "$" + humanize.FormatFloat("#,###.##", price)
	}
	return fmt.Sprintf("$%.6f", price)
}

// FormatMarketCap abbreviates a market cap with T, B or M.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return "$" + humanize.Commaf(round(v, 3))
}

// FormatVolume abbreviates a trading volume with B or M.
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return "$" + humanize.Commaf(round(v, 3))
}

// FormatChange renders a 24h change as a signed percentage.
func FormatChange(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// RelativeTime renders t relative to now, such as "5 minutes ago".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return UnknownTime
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// RelativeTimePtr is RelativeTime for optional timestamps.
func RelativeTimePtr(t *time.Time, now time.Time) string {
	if t == nil {
		return UnknownTime
	}
	return RelativeTime(*t, now)
}

// PaginationFooter renders the "Showing a-b of n" line under a page.
func PaginationFooter(p models.PaginationInfo, noun string) string {
	start, end := p.Range()
	if end == 0 {
		return fmt.Sprintf("No %s found", noun)
	}
	return fmt.Sprintf("Showing %d-%d of %d %s (page %d of %d)",
		start, end, p.TotalItems, noun, p.CurrentPage, max(p.TotalPages, 1))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
