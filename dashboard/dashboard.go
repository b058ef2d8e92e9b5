// Package dashboard composes the feeds shown together on one screen.
package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/aluiziolira/go-live-dashboard/feed"
	"github.com/aluiziolira/go-live-dashboard/models"
)

// ArticleBackend is everything the news screen needs from the API.
type ArticleBackend interface {
	feed.Source[models.Article]
	feed.StatsSource[models.ArticleStats]
	Recent(ctx context.Context, limit int) ([]models.Article, error)
}

// CryptoBackend is everything the markets screen needs from the API.
type CryptoBackend interface {
	feed.Source[models.CryptoSnapshot]
	feed.StatsSource[models.CryptoStats]
	Top(ctx context.Context, limit int) ([]models.CryptoSnapshot, error)
}

// News is the articles screen: the paginated list, the summary, and the
// most recent articles.
type News struct {
	Articles *feed.List[models.Article]
	Stats    *feed.Stats[models.ArticleStats]
	Recent   *feed.Collection[models.Article]
}

// NewNews wires the news feeds to backend.
func NewNews(backend ArticleBackend, opts feed.Options) *News {
	return &News{
		Articles: feed.NewArticles(backend, opts),
		Stats:    feed.NewArticleStats(backend, opts.Logger),
		Recent:   feed.NewRecentArticles(backend.Recent, feed.DefaultRecentLimit, opts.Logger),
	}
}

// Mount performs the initial fetch of every feed on the screen.
func (n *News) Mount(ctx context.Context) error {
	return runAll(ctx, n.Articles.Refresh, n.Stats.FetchStats, n.Recent.Fetch)
}

// Refresh re-fetches the list while asking the server for a new scrape.
func (n *News) Refresh(ctx context.Context) error {
	return runAll(ctx, n.Articles.Refresh, scrape(n.Stats))
}

// Markets is the crypto screen: the paginated list, the summary, and the
// top ranked coins.
type Markets struct {
	Crypto *feed.List[models.CryptoSnapshot]
	Stats  *feed.Stats[models.CryptoStats]
	Top    *feed.Collection[models.CryptoSnapshot]
}

// NewMarkets wires the market feeds to backend.
func NewMarkets(backend CryptoBackend, opts feed.Options) *Markets {
	return &Markets{
		Crypto: feed.NewCrypto(backend, opts),
		Stats:  feed.NewCryptoStats(backend, opts.Logger),
		Top:    feed.NewTopCrypto(backend.Top, feed.DefaultTopLimit, opts.Logger),
	}
}

// Mount performs the initial fetch of every feed on the screen.
func (m *Markets) Mount(ctx context.Context) error {
	return runAll(ctx, m.Crypto.Refresh, m.Stats.FetchStats, m.Top.Fetch)
}

// Refresh re-fetches the list while asking the server for a new scrape.
func (m *Markets) Refresh(ctx context.Context) error {
	return runAll(ctx, m.Crypto.Refresh, scrape(m.Stats))
}

type scraper interface {
	TriggerScraping(ctx context.Context) (*models.ScrapeResult, error)
}

func scrape(s scraper) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.TriggerScraping(ctx)
		return err
	}
}

// runAll runs every fn concurrently and joins their failures. One failure
// does not cancel the others. Superseded fetches are not failures.
func runAll(ctx context.Context, fns ...func(context.Context) error) error {
	errs := make([]error, len(fns))
	var g errgroup.Group
	for i, fn := range fns {
		g.Go(func() error {
			if err := fn(ctx); err != nil && !errors.Is(err, feed.ErrSuperseded) {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
