package models

import "testing"

func TestListQueryMergeKeepsUnspecifiedFields(t *testing.T) {
	base := ListQuery{Page: 3, Limit: 50, Search: "go", SortBy: "score", SortOrder: Desc}

	tests := []struct {
		name string
		opts []QueryOption
		want ListQuery
	}{
		{
			name: "no options",
			opts: nil,
			want: base,
		},
		{
			name: "page only",
			opts: []QueryOption{WithPage(7)},
			want: ListQuery{Page: 7, Limit: 50, Search: "go", SortBy: "score", SortOrder: Desc},
		},
		{
			name: "search and page",
			opts: []QueryOption{WithSearch("rust"), WithPage(1)},
			want: ListQuery{Page: 1, Limit: 50, Search: "rust", SortBy: "score", SortOrder: Desc},
		},
		{
			name: "later option wins",
			opts: []QueryOption{WithLimit(10), WithLimit(100)},
			want: ListQuery{Page: 3, Limit: 100, Search: "go", SortBy: "score", SortOrder: Desc},
		},
		{
			name: "sort",
			opts: []QueryOption{WithSort("title", Asc)},
			want: ListQuery{Page: 3, Limit: 50, Search: "go", SortBy: "title", SortOrder: Asc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Merge(tt.opts...); got != tt.want {
				t.Fatalf("merge = %+v, want %+v", got, tt.want)
			}
		})
	}

	if base.Page != 3 || base.Search != "go" {
		t.Fatalf("merge must not mutate the receiver, got %+v", base)
	}
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{Page: 2, Limit: 10, SortBy: "score", SortOrder: Desc}
	values := q.Values()

	if got := values.Get("page"); got != "2" {
		t.Fatalf("page = %q, want 2", got)
	}
	if got := values.Get("limit"); got != "10" {
		t.Fatalf("limit = %q, want 10", got)
	}
	if _, ok := values["search"]; ok {
		t.Fatalf("empty search should be omitted")
	}
	if got := values.Encode(); got != "limit=10&page=2&sortBy=score&sortOrder=desc" {
		t.Fatalf("encoded = %q", got)
	}
}

func TestDomainDefaults(t *testing.T) {
	if !ArticlesDomain.AllowsSort(ArticlesDomain.Default.SortBy) {
		t.Fatalf("articles default sort must be allowed")
	}
	if !CryptoDomain.AllowsSort(CryptoDomain.Default.SortBy) {
		t.Fatalf("crypto default sort must be allowed")
	}
	if ArticlesDomain.AllowsSort("rank") {
		t.Fatalf("rank is not an article field")
	}
	if CryptoDomain.Default.SortOrder != Asc || ArticlesDomain.Default.SortOrder != Desc {
		t.Fatalf("unexpected default orders")
	}
}

func TestPaginationRange(t *testing.T) {
	tests := []struct {
		name       string
		p          PaginationInfo
		start, end int
	}{
		{name: "middle page", p: PaginationInfo{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, start: 11, end: 20},
		{name: "last partial page", p: PaginationInfo{CurrentPage: 3, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, start: 21, end: 25},
		{name: "empty", p: PaginationInfo{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 20}, start: 0, end: 0},
		{name: "page past end", p: PaginationInfo{CurrentPage: 9, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, start: 0, end: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.p.Range()
			if start != tt.start || end != tt.end {
				t.Fatalf("range = (%d, %d), want (%d, %d)", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestPaginationValid(t *testing.T) {
	tests := []struct {
		name string
		p    PaginationInfo
		want bool
	}{
		{name: "ok", p: PaginationInfo{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, want: true},
		{name: "empty collection page one", p: PaginationInfo{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 10}, want: true},
		{name: "zero per page", p: PaginationInfo{CurrentPage: 1, TotalPages: 1, TotalItems: 1, ItemsPerPage: 0}, want: false},
		{name: "page beyond total", p: PaginationInfo{CurrentPage: 4, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, want: false},
		{name: "negative total", p: PaginationInfo{CurrentPage: 1, TotalPages: 1, TotalItems: -1, ItemsPerPage: 10}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Fatalf("valid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArticleHostname(t *testing.T) {
	a := Article{Link: "https://news.ycombinator.com/item?id=1"}
	if got := a.Hostname(); got != "news.ycombinator.com" {
		t.Fatalf("hostname = %q", got)
	}
	if got := (Article{Link: "://bad"}).Hostname(); got != "" {
		t.Fatalf("hostname of bad link = %q, want empty", got)
	}
}
