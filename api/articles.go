package api

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/parser"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ArticlesService wraps the /articles endpoints.
type ArticlesService struct {
	client *Client
	cache  *expirable.LRU[string, models.Article]
}

// NewArticlesService binds the articles endpoints to client.
func NewArticlesService(client *Client) *ArticlesService {
	return &ArticlesService{
		client: client,
		cache:  newCache[models.Article](client),
	}
}

// Client returns the underlying HTTP client.
func (s *ArticlesService) Client() *Client {
	return s.client
}

// List fetches one page of articles.
func (s *ArticlesService) List(ctx context.Context, q models.ListQuery) (*models.PageResult[models.Article], error) {
	return getPage(ctx, s.client, "articles.list", q.Values(), parser.ValidateArticle, "articles")
}

// Recent fetches the most recently scraped articles.
func (s *ArticlesService) Recent(ctx context.Context, limit int) ([]models.Article, error) {
	return getList(ctx, s.client, "articles.recent", limit, parser.ValidateArticle, "articles", "recent")
}

// Top fetches the highest scored articles.
func (s *ArticlesService) Top(ctx context.Context, limit int) ([]models.Article, error) {
	return getList(ctx, s.client, "articles.top", limit, parser.ValidateArticle, "articles", "top")
}

// Stats fetches the news feed summary.
func (s *ArticlesService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	return getData[models.ArticleStats](ctx, s.client, "articles.stats", nil, "articles", "stats")
}

// Get fetches one article, serving repeated lookups from the cache.
func (s *ArticlesService) Get(ctx context.Context, id string) (*models.Article, error) {
	if s.cache != nil {
		if article, ok := s.cache.Get(id); ok {
			s.client.Metrics.IncCache(true)
			return &article, nil
		}
		s.client.Metrics.IncCache(false)
	}
	article, err := getData(ctx, s.client, "articles.get", parser.ValidateArticle, "articles", id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(id, *article)
	}
	return article, nil
}

// TriggerScrape asks the server to start a scrape. It returns as soon as
// the server acknowledges; the scrape itself is not awaited.
func (s *ArticlesService) TriggerScrape(ctx context.Context) (*models.ScrapeResult, error) {
	return s.client.triggerScrape(ctx, "articles.scrape", "articles", "scrape")
}

// Delete soft-deletes an article and evicts it from the cache.
func (s *ArticlesService) Delete(ctx context.Context, id string) error {
	if err := s.client.remove(ctx, "articles.delete", "articles", id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Remove(id)
	}
	s.client.logger.Info("article deleted", slog.String("id", id))
	return nil
}

func newCache[T any](client *Client) *expirable.LRU[string, T] {
	if client.cacheSize <= 0 {
		return nil
	}
	return expirable.NewLRU[string, T](client.cacheSize, nil, client.cacheTTL)
}
