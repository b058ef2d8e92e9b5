package models

import (
	"net/url"
	"time"
)

// Article is a scraped news item.
type Article struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Link        string     `json:"link"`
	Score       int        `json:"score"`
	Comments    int        `json:"comments"`
	ScrapedAt   time.Time  `json:"scrapedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Key returns the article identity.
func (a Article) Key() string { return a.ID }

// Hostname returns the host of the article link, or "" when it does not parse.
func (a Article) Hostname() string {
	parsed, err := url.Parse(a.Link)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// ArticleStats is the server-side summary of the news feed.
type ArticleStats struct {
	TotalArticles int        `json:"totalArticles"`
	TodayArticles int        `json:"todayArticles"`
	AverageScore  float64    `json:"averageScore"`
	TopArticle    *Article   `json:"topArticle,omitempty"`
	LastScrape    *time.Time `json:"lastScrape,omitempty"`
}
