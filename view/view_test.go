package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-live-dashboard/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 67234.5, want: "$67,234.50"},
		{in: 1, want: "$1.00"},
		{in: 0.5, want: "$0.500000"},
		{in: 0.00001234, want: "$0.000012"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMarketCapAndVolume(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) string
		in   float64
		want string
	}{
		{name: "cap trillions", fn: FormatMarketCap, in: 1.3e12, want: "$1.30T"},
		{name: "cap billions", fn: FormatMarketCap, in: 402.15e9, want: "$402.15B"},
		{name: "cap millions", fn: FormatMarketCap, in: 12.5e6, want: "$12.50M"},
		{name: "cap small", fn: FormatMarketCap, in: 500000, want: "$500,000"},
		{name: "volume trillions stay billions", fn: FormatVolume, in: 2e12, want: "$2000.00B"},
		{name: "volume millions", fn: FormatVolume, in: 3.25e6, want: "$3.25M"},
		{name: "volume small", fn: FormatVolume, in: 1234.5, want: "$1,234.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatChange(t *testing.T) {
	tests := map[float64]string{
		2.346:  "+2.35%",
		0:      "+0.00%",
		-1.5:   "-1.50%",
		-0.004: "-0.00%",
	}
	for in, want := range tests {
		if got := FormatChange(in); got != want {
			t.Errorf("FormatChange(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "minutes", at: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{name: "hours", at: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{name: "zero", at: time.Time{}, want: UnknownTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(tt.at, now); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
	if got := RelativeTimePtr(nil, now); got != UnknownTime {
		t.Fatalf("nil timestamp = %q", got)
	}
}

func TestPaginationFooter(t *testing.T) {
	tests := []struct {
		name string
		p    models.PaginationInfo
		want string
	}{
		{
			name: "middle page",
			p:    models.PaginationInfo{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10},
			want: "Showing 11-20 of 25 articles (page 2 of 3)",
		},
		{
			name: "last partial page",
			p:    models.PaginationInfo{CurrentPage: 3, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10},
			want: "Showing 21-25 of 25 articles (page 3 of 3)",
		},
		{
			name: "empty",
			p:    models.PaginationInfo{CurrentPage: 1, TotalPages: 1, TotalItems: 0, ItemsPerPage: 10},
			want: "No articles found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaginationFooter(tt.p, "articles"); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCryptoTable(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := Crypto(&buf, []models.CryptoSnapshot{{
		ID:        "c1",
		Name:      "Bitcoin",
		Symbol:    "BTC",
		Price:     67234.5,
		MarketCap: 1.3e12,
		Volume24h: 28.4e9,
		Change24h: 2.346,
		Rank:      1,
		Timestamp: now.Add(-10 * time.Minute),
	}}, now)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"BTC", "Bitcoin", "$67,234.50", "+2.35%", "$1.30T", "$28.40B", "10 minutes ago", "#1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestArticlesTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Articles(&buf, nil, time.Now()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No articles found" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestArticlesTableTruncatesTitles(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", 100)
	err := Articles(&buf, []models.Article{{ID: "a1", Title: long, Link: "https://news.ycombinator.com/item?id=1", Score: 10}}, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, long) {
		t.Fatalf("title was not truncated")
	}
	if !strings.Contains(out, "news.ycombinator.com") {
		t.Fatalf("hostname missing:\n%s", out)
	}
}

func TestStatsTables(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Hour)

	var buf bytes.Buffer
	if err := ArticleStats(&buf, &models.ArticleStats{TotalArticles: 1234, TodayArticles: 56, AverageScore: 48.3, LastScrape: &last}, now); err != nil {
		t.Fatalf("article stats: %v", err)
	}
	for _, want := range []string{"1,234", "56", "48.3", "2 hours ago"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("article stats missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := CryptoStats(&buf, nil, now); err != nil {
		t.Fatalf("crypto stats: %v", err)
	}
	for _, want := range []string{"N/A", UnknownTime} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("crypto stats missing %q:\n%s", want, buf.String())
		}
	}
}
