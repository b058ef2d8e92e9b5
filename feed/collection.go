package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aluiziolira/go-live-dashboard/api"
	"github.com/aluiziolira/go-live-dashboard/models"
)

// Loader fetches up to limit items.
type Loader[T any] func(ctx context.Context, limit int) ([]T, error)

// CollectionState is a snapshot of a Collection.
type CollectionState[T any] struct {
	Items   []T
	Limit   int
	Loading bool
	Error   string
}

// Collection holds a short unpaginated list such as the top or most recent
// items of a feed.
type Collection[T any] struct {
	load    Loader[T]
	limit   int
	failure string
	logger  *slog.Logger

	mu       sync.Mutex
	items    []T
	err      string
	inflight int
	issued   uint64
}

// NewCollection returns a collection backed by load. failure is the message
// stored when load fails without a better one.
func NewCollection[T any](load Loader[T], limit int, failure string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{
		load:    load,
		limit:   limit,
		failure: failure,
		logger:  logger,
		items:   []T{},
	}
}

// NewRecentArticles tracks the most recently scraped articles.
func NewRecentArticles(load Loader[models.Article], limit int, logger *slog.Logger) *Collection[models.Article] {
	return NewCollection(load, limit, "Failed to fetch recent articles", logger)
}

// NewTopArticles tracks the highest scored articles.
func NewTopArticles(load Loader[models.Article], limit int, logger *slog.Logger) *Collection[models.Article] {
	return NewCollection(load, limit, "Failed to fetch top articles", logger)
}

// NewTopCrypto tracks the largest cryptocurrencies.
func NewTopCrypto(load Loader[models.CryptoSnapshot], limit int, logger *slog.Logger) *Collection[models.CryptoSnapshot] {
	return NewCollection(load, limit, "Failed to fetch top cryptocurrencies", logger)
}

// NewLatestCrypto tracks the most recent market snapshots.
func NewLatestCrypto(load Loader[models.CryptoSnapshot], limit int, logger *slog.Logger) *Collection[models.CryptoSnapshot] {
	return NewCollection(load, limit, "Failed to fetch latest cryptocurrency data", logger)
}

// State returns a copy of the held state.
func (c *Collection[T]) State() CollectionState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return CollectionState[T]{
		Items:   items,
		Limit:   c.limit,
		Loading: c.inflight > 0,
		Error:   c.err,
	}
}

// Fetch replaces the held items.
func (c *Collection[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	c.inflight++
	token := c.issued
	limit := c.limit
	c.mu.Unlock()

	items, err := c.load(ctx, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if token != c.issued {
		return ErrSuperseded
	}
	if err != nil {
		c.err = api.Message(err, c.failure)
		c.logger.Warn("collection fetch failed", slog.Int("limit", limit), slog.Any("error", err))
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.err = ""
	return nil
}
