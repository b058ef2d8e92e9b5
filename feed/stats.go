package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aluiziolira/go-live-dashboard/api"
	"github.com/aluiziolira/go-live-dashboard/models"
)

// StatsState is a snapshot of a Stats holder.
type StatsState[S any] struct {
	Summary *S
	Loading bool
	Error   string
}

// Stats holds a server-side summary that is always replaced wholesale.
type Stats[S any] struct {
	source   StatsSource[S]
	messages messages
	logger   *slog.Logger

	mu       sync.Mutex
	summary  *S
	err      string
	inflight int
	issued   uint64
}

func newStats[S any](source StatsSource[S], msgs messages, logger *slog.Logger) *Stats[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stats[S]{
		source:   source,
		messages: msgs,
		logger:   logger.With(slog.String("feed", "stats")),
	}
}

// State returns a copy of the held state.
func (s *Stats[S]) State() StatsState[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary *S
	if s.summary != nil {
		copied := *s.summary
		summary = &copied
	}
	return StatsState[S]{
		Summary: summary,
		Loading: s.inflight > 0,
		Error:   s.err,
	}
}

// FetchStats replaces the held summary.
func (s *Stats[S]) FetchStats(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	s.inflight++
	token := s.issued
	s.mu.Unlock()

	summary, err := s.source.Stats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if token != s.issued {
		return ErrSuperseded
	}
	if err != nil {
		s.err = api.Message(err, s.messages.fetch)
		s.logger.Warn("stats fetch failed", slog.Any("error", err))
		return err
	}
	s.summary = summary
	s.err = ""
	return nil
}

// TriggerScraping asks the server to scrape, then re-fetches the summary.
// The scrape runs in the background on the server, so the summary fetched
// here can still show the counts from before it. When the trigger itself
// fails the summary is not re-fetched.
func (s *Stats[S]) TriggerScraping(ctx context.Context) (*models.ScrapeResult, error) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	result, err := s.source.TriggerScrape(ctx)
	if err != nil {
		s.mu.Lock()
		s.err = api.Message(err, s.messages.scrape)
		s.mu.Unlock()
		s.logger.Warn("scrape trigger failed", slog.Any("error", err))
		return nil, err
	}
	s.logger.Info("scrape triggered", slog.String("message", result.Message))

	if err := s.FetchStats(ctx); err != nil && err != ErrSuperseded {
		s.logger.Debug("stats refresh after scrape failed", slog.Any("error", err))
	}
	return result, nil
}
