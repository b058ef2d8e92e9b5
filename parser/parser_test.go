package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-live-dashboard/models"
)

func TestValidateArticle(t *testing.T) {
	tests := []struct {
		name    string
		article models.Article
		wantErr bool
	}{
		{
			name: "valid article",
			article: models.Article{
				ID:        "a1",
				Title:     "Show HN: a thing",
				Author:    "pg",
				Link:      "https://example.com",
				Score:     10,
				Comments:  2,
				ScrapedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name:    "missing id",
			article: models.Article{Title: "No id"},
			wantErr: true,
		},
		{
			name:    "missing title",
			article: models.Article{ID: "a2"},
			wantErr: true,
		},
		{
			name:    "negative score",
			article: models.Article{ID: "a3", Title: "t", Score: -1},
			wantErr: true,
		},
		{
			name:    "negative comments",
			article: models.Article{ID: "a4", Title: "t", Comments: -3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticle(tt.article)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArticle() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCrypto(t *testing.T) {
	valid := models.CryptoSnapshot{ID: "c1", Name: "Bitcoin", Symbol: "BTC", Price: 1, MarketCap: 1, Volume24h: 1, Change24h: -4.2, Rank: 1}

	tests := []struct {
		name    string
		mutate  func(*models.CryptoSnapshot)
		wantErr bool
	}{
		{name: "valid", mutate: func(*models.CryptoSnapshot) {}, wantErr: false},
		{name: "missing id", mutate: func(c *models.CryptoSnapshot) { c.ID = "" }, wantErr: true},
		{name: "missing symbol", mutate: func(c *models.CryptoSnapshot) { c.Symbol = " " }, wantErr: true},
		{name: "negative price", mutate: func(c *models.CryptoSnapshot) { c.Price = -1 }, wantErr: true},
		{name: "negative market cap", mutate: func(c *models.CryptoSnapshot) { c.MarketCap = -1 }, wantErr: true},
		{name: "negative volume", mutate: func(c *models.CryptoSnapshot) { c.Volume24h = -1 }, wantErr: true},
		{name: "zero rank", mutate: func(c *models.CryptoSnapshot) { c.Rank = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := ValidateCrypto(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCrypto() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodePage(t *testing.T) {
	body := []byte(`{
		"success": true,
		"data": [
			{"_id": "a1", "title": "First", "author": "x", "link": "https://a.test", "score": 5, "comments": 1, "scrapedAt": "2024-05-01T10:00:00.000Z"},
			{"_id": "a2", "title": "Second", "author": "y", "link": "https://b.test", "score": 3, "comments": 0, "scrapedAt": "2024-05-01T09:00:00.000Z", "publishedAt": "2024-04-30T09:00:00.000Z"}
		],
		"pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 2, "itemsPerPage": 20}
	}`)

	page, err := DecodePage(body, ValidateArticle)
	if err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[1].PublishedAt == nil {
		t.Fatalf("publishedAt should be decoded")
	}
	if page.Items[0].PublishedAt != nil {
		t.Fatalf("publishedAt should stay nil when absent")
	}
	if page.Pagination.TotalItems != 2 || page.Pagination.ItemsPerPage != 20 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if page.Fallback {
		t.Fatalf("decoded page must not be marked as fallback")
	}
}

func TestDecodePageMalformed(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "not json", body: `<html>`, wantErr: "decode page"},
		{name: "missing data", body: `{"pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 0, "itemsPerPage": 20}}`, wantErr: "missing data"},
		{name: "missing pagination", body: `{"data": []}`, wantErr: "missing pagination"},
		{name: "bad pagination", body: `{"data": [], "pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 0, "itemsPerPage": 0}}`, wantErr: "invalid pagination"},
		{name: "bad item", body: `{"data": [{"title": "no id"}], "pagination": {"currentPage": 1, "totalPages": 1, "totalItems": 1, "itemsPerPage": 20}}`, wantErr: "item 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePage([]byte(tt.body), ValidateArticle)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodeData(t *testing.T) {
	stats, err := DecodeData[models.CryptoStats]([]byte(`{"data": {"totalCrypto": 100, "todayCrypto": 7, "topCrypto": {"_id": "c1", "name": "Bitcoin", "symbol": "BTC", "price": 64000, "rank": 1}}}`))
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if stats.TotalCrypto != 100 || stats.TodayCrypto != 7 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TopCrypto == nil || stats.TopCrypto.Name != "Bitcoin" {
		t.Fatalf("top crypto = %+v", stats.TopCrypto)
	}

	if _, err := DecodeData[models.CryptoStats]([]byte(`{"success": true}`)); err == nil {
		t.Fatalf("expected missing data error")
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: `{"success": false, "message": "Article not found"}`, want: "Article not found"},
		{body: `{"error": "boom"}`, want: "boom"},
		{body: `{"message": "  "}`, want: ""},
		{body: `Internal Server Error`, want: ""},
		{body: ``, want: ""},
	}

	for _, tt := range tests {
		if got := DecodeMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("DecodeMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  btc "); got != "BTC" {
		t.Fatalf("NormalizeSymbol = %q, want BTC", got)
	}
}
