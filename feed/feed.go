// Package feed holds the client-side state of the dashboard feeds: the
// current query, the last page fetched, loading and error flags, and the
// actions that change them.
//
// Every action that changes the query issues exactly one fetch with the
// merged query. Fetches carry a token; a response that arrives after a newer
// fetch was issued is dropped so the held state always reflects the latest
// request.
package feed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aluiziolira/go-live-dashboard/models"
)

var (
	// ErrSuperseded is returned by a fetch whose response was discarded
	// because a newer fetch had been issued.
	ErrSuperseded = errors.New("feed: superseded by a newer request")
	// ErrInvalidQuery is returned when an action would break a query
	// invariant. The held query is left unchanged.
	ErrInvalidQuery = errors.New("feed: invalid query")
)

// Default limits of the limit-only collections.
const (
	DefaultRecentLimit = 10
	DefaultTopLimit    = 10
	DefaultLatestLimit = 50
)

// Source is the remote side of a paginated list.
type Source[T models.Keyed] interface {
	List(ctx context.Context, q models.ListQuery) (*models.PageResult[T], error)
	Delete(ctx context.Context, id string) error
}

// StatsSource is the remote side of a stats summary.
type StatsSource[S any] interface {
	Stats(ctx context.Context) (*S, error)
	TriggerScrape(ctx context.Context) (*models.ScrapeResult, error)
}

// Options configures a List.
type Options struct {
	Logger *slog.Logger
	// Initial is merged over the domain default query.
	Initial []models.QueryOption
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

type messages struct {
	fetch  string
	delete string
	scrape string
}

var (
	articleMessages = messages{
		fetch:  "Failed to fetch articles",
		delete: "Failed to delete article",
	}
	cryptoMessages = messages{
		fetch:  "Failed to fetch cryptocurrency data",
		delete: "Failed to delete cryptocurrency",
	}
	articleStatsMessages = messages{
		fetch:  "Failed to fetch statistics",
		scrape: "Failed to trigger scraping",
	}
	cryptoStatsMessages = messages{
		fetch:  "Failed to fetch cryptocurrency statistics",
		scrape: "Failed to trigger crypto scraping",
	}
)

// NewArticles returns the articles list, sorted newest scrape first.
func NewArticles(source Source[models.Article], opts Options) *List[models.Article] {
	return newList(source, models.ArticlesDomain, articleMessages, opts)
}

// NewCrypto returns the crypto list, sorted by rank.
func NewCrypto(source Source[models.CryptoSnapshot], opts Options) *List[models.CryptoSnapshot] {
	return newList(source, models.CryptoDomain, cryptoMessages, opts)
}

// NewArticleStats returns the news summary holder.
func NewArticleStats(source StatsSource[models.ArticleStats], logger *slog.Logger) *Stats[models.ArticleStats] {
	return newStats(source, articleStatsMessages, logger)
}

// NewCryptoStats returns the market summary holder.
func NewCryptoStats(source StatsSource[models.CryptoStats], logger *slog.Logger) *Stats[models.CryptoStats] {
	return newStats(source, cryptoStatsMessages, logger)
}
