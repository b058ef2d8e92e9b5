package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/parser"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CryptoService wraps the /crypto endpoints.
type CryptoService struct {
	client   *Client
	byID     *expirable.LRU[string, models.CryptoSnapshot]
	bySymbol *expirable.LRU[string, models.CryptoSnapshot]
}

// NewCryptoService binds the crypto endpoints to client.
func NewCryptoService(client *Client) *CryptoService {
	return &CryptoService{
		client:   client,
		byID:     newCache[models.CryptoSnapshot](client),
		bySymbol: newCache[models.CryptoSnapshot](client),
	}
}

// Client returns the underlying HTTP client.
func (s *CryptoService) Client() *Client {
	return s.client
}

// List fetches one page of snapshots. When the client runs with demo
// fallback enabled, a refused connection or a 5xx answer yields the demo
// page instead of an error.
func (s *CryptoService) List(ctx context.Context, q models.ListQuery) (*models.PageResult[models.CryptoSnapshot], error) {
	page, err := getPage(ctx, s.client, "crypto.list", q.Values(), parser.ValidateCrypto, "crypto")
	if err == nil {
		return page, nil
	}
	if !s.client.demoFallback || !shouldFallback(err) {
		return nil, err
	}

	s.client.logger.Warn("crypto api unavailable, serving demo data",
		slog.String("category", Label(err)),
		slog.Any("error", err),
	)
	s.client.Metrics.IncFallback()
	return DemoCryptoPage(q), nil
}

// Top fetches the largest snapshots by market cap.
func (s *CryptoService) Top(ctx context.Context, limit int) ([]models.CryptoSnapshot, error) {
	return getList(ctx, s.client, "crypto.top", limit, parser.ValidateCrypto, "crypto", "top")
}

// Latest fetches the most recent snapshots.
func (s *CryptoService) Latest(ctx context.Context, limit int) ([]models.CryptoSnapshot, error) {
	return getList(ctx, s.client, "crypto.latest", limit, parser.ValidateCrypto, "crypto", "latest")
}

// BySymbol fetches the snapshot for a ticker symbol.
func (s *CryptoService) BySymbol(ctx context.Context, symbol string) (*models.CryptoSnapshot, error) {
	symbol = parser.NormalizeSymbol(symbol)
	return s.cached(ctx, s.bySymbol, symbol, "crypto.symbol", "crypto", "symbol", symbol)
}

// Get fetches one snapshot by id.
func (s *CryptoService) Get(ctx context.Context, id string) (*models.CryptoSnapshot, error) {
	return s.cached(ctx, s.byID, id, "crypto.get", "crypto", id)
}

// Stats fetches the market feed summary.
func (s *CryptoService) Stats(ctx context.Context) (*models.CryptoStats, error) {
	return getData[models.CryptoStats](ctx, s.client, "crypto.stats", nil, "crypto", "stats")
}

// TriggerScrape asks the server to refresh market data without waiting for
// it to finish.
func (s *CryptoService) TriggerScrape(ctx context.Context) (*models.ScrapeResult, error) {
	return s.client.triggerScrape(ctx, "crypto.scrape", "crypto", "scrape")
}

// Delete soft-deletes a snapshot and evicts it from both caches.
func (s *CryptoService) Delete(ctx context.Context, id string) error {
	if err := s.client.remove(ctx, "crypto.delete", "crypto", id); err != nil {
		return err
	}
	if s.byID != nil {
		s.byID.Remove(id)
	}
	if s.bySymbol != nil {
		for _, key := range s.bySymbol.Keys() {
			if snapshot, ok := s.bySymbol.Peek(key); ok && snapshot.ID == id {
				s.bySymbol.Remove(key)
			}
		}
	}
	s.client.logger.Info("crypto deleted", slog.String("id", id))
	return nil
}

func (s *CryptoService) cached(ctx context.Context, cache *expirable.LRU[string, models.CryptoSnapshot], key, endpoint string, path ...string) (*models.CryptoSnapshot, error) {
	if cache != nil {
		if snapshot, ok := cache.Get(key); ok {
			s.client.Metrics.IncCache(true)
			return &snapshot, nil
		}
		s.client.Metrics.IncCache(false)
	}
	snapshot, err := getData(ctx, s.client, endpoint, parser.ValidateCrypto, path...)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Add(key, *snapshot)
	}
	return snapshot, nil
}

func shouldFallback(err error) bool {
	if IsConnectionRefused(err) {
		return true
	}
	var server ErrServer
	return errors.As(err, &server)
}
