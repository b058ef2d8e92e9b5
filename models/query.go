// Package models defines data structures shared by the dashboard client.
package models

import (
	"net/url"
	"strconv"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == Asc || o == Desc
}

// ListQuery holds the parameters of a paginated list request.
type ListQuery struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	Search    string    `json:"search"`
	SortBy    string    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// QueryOption changes a single field of a ListQuery.
type QueryOption func(*ListQuery)

// WithPage sets the requested page.
func WithPage(page int) QueryOption {
	return func(q *ListQuery) { q.Page = page }
}

// WithLimit sets the page size.
func WithLimit(limit int) QueryOption {
	return func(q *ListQuery) { q.Limit = limit }
}

// WithSearch sets the search term.
func WithSearch(search string) QueryOption {
	return func(q *ListQuery) { q.Search = search }
}

// WithSort sets both the sort field and direction.
func WithSort(field string, order SortOrder) QueryOption {
	return func(q *ListQuery) {
		q.SortBy = field
		q.SortOrder = order
	}
}

// Merge returns a copy of q with opts applied. Fields no option touches keep
// their value.
func (q ListQuery) Merge(opts ...QueryOption) ListQuery {
	for _, opt := range opts {
		if opt != nil {
			opt(&q)
		}
	}
	return q
}

// Values encodes q as URL query parameters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", string(q.SortOrder))
	}
	return values
}

// Domain describes the list defaults of one data feed.
type Domain struct {
	Name       string
	SortFields []string
	Default    ListQuery
}

// AllowsSort reports whether field is one of the domain's sort fields.
func (d Domain) AllowsSort(field string) bool {
	for _, f := range d.SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// PageSizes are the page sizes offered by the dashboard.
var PageSizes = []int{10, 20, 50, 100}

// ArticlesDomain is the news feed: newest scrape first.
var ArticlesDomain = Domain{
	Name:       "articles",
	SortFields: []string{"scrapedAt", "score", "comments", "title"},
	Default: ListQuery{
		Page:      1,
		Limit:     20,
		SortBy:    "scrapedAt",
		SortOrder: Desc,
	},
}

// CryptoDomain is the market feed: best rank first.
var CryptoDomain = Domain{
	Name:       "crypto",
	SortFields: []string{"rank", "price", "marketCap", "change24h", "volume24h", "timestamp"},
	Default: ListQuery{
		Page:      1,
		Limit:     20,
		SortBy:    "rank",
		SortOrder: Asc,
	},
}
