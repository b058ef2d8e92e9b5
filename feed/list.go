package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aluiziolira/go-live-dashboard/api"
	"github.com/aluiziolira/go-live-dashboard/models"
)

// State is a snapshot of a List.
type State[T any] struct {
	Query      models.ListQuery
	Items      []T
	Pagination models.PaginationInfo
	Loading    bool
	Error      string
	// Fallback reports that Items is demo data from degraded mode.
	Fallback bool
}

// List holds one page of a paginated feed. It is safe for concurrent use;
// no lock is held while a request is in flight.
type List[T models.Keyed] struct {
	source   Source[T]
	domain   models.Domain
	messages messages
	logger   *slog.Logger

	mu         sync.Mutex
	query      models.ListQuery
	items      []T
	pagination models.PaginationInfo
	err        string
	fallback   bool
	inflight   int
	issued     uint64
	onChange   func(State[T])
}

func newList[T models.Keyed](source Source[T], domain models.Domain, msgs messages, opts Options) *List[T] {
	query := domain.Default.Merge(opts.Initial...)
	return &List[T]{
		source:   source,
		domain:   domain,
		messages: msgs,
		logger:   opts.logger().With(slog.String("feed", domain.Name)),
		query:    query,
		items:    []T{},
		pagination: models.PaginationInfo{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   0,
			ItemsPerPage: query.Limit,
		},
	}
}

// Domain returns the feed's domain description.
func (l *List[T]) Domain() models.Domain {
	return l.domain
}

// OnChange registers fn to receive every new state. Passing nil removes it.
func (l *List[T]) OnChange(fn func(State[T])) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// State returns a copy of the held state.
func (l *List[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Fetch requests the held query merged with overrides. The overrides apply
// to this request only.
func (l *List[T]) Fetch(ctx context.Context, overrides ...models.QueryOption) error {
	l.mu.Lock()
	query := l.query.Merge(overrides...)
	token := l.beginLocked()
	l.mu.Unlock()
	l.notify()

	return l.run(ctx, token, query)
}

// Update merges opts into the held query and fetches it.
func (l *List[T]) Update(ctx context.Context, opts ...models.QueryOption) error {
	l.mu.Lock()
	l.query = l.query.Merge(opts...)
	query := l.query
	token := l.beginLocked()
	l.mu.Unlock()
	l.notify()

	return l.run(ctx, token, query)
}

// Search sets the search term and goes back to the first page.
func (l *List[T]) Search(ctx context.Context, term string) error {
	return l.Update(ctx, models.WithSearch(term), models.WithPage(1))
}

// Sort sets the sort field and direction and goes back to the first page.
// An empty order means the domain default.
func (l *List[T]) Sort(ctx context.Context, field string, order models.SortOrder) error {
	if order == "" {
		order = l.domain.Default.SortOrder
	}
	if !l.domain.AllowsSort(field) {
		return fmt.Errorf("%w: %s cannot be sorted by %q", ErrInvalidQuery, l.domain.Name, field)
	}
	if !order.Valid() {
		return fmt.Errorf("%w: sort order %q", ErrInvalidQuery, order)
	}
	return l.Update(ctx, models.WithSort(field, order), models.WithPage(1))
}

// ChangePage moves to page n. The page is not clamped; the server decides
// what an out-of-range page means.
func (l *List[T]) ChangePage(ctx context.Context, n int) error {
	return l.Update(ctx, models.WithPage(n))
}

// ChangePageSize sets the page size and goes back to the first page.
func (l *List[T]) ChangePageSize(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: page size %d", ErrInvalidQuery, n)
	}
	return l.Update(ctx, models.WithLimit(n), models.WithPage(1))
}

// ClearFilters drops the search term and restores the default sort.
func (l *List[T]) ClearFilters(ctx context.Context) error {
	def := l.domain.Default
	return l.Update(ctx,
		models.WithSearch(""),
		models.WithSort(def.SortBy, def.SortOrder),
		models.WithPage(1),
	)
}

// Refresh re-fetches the held query.
func (l *List[T]) Refresh(ctx context.Context) error {
	return l.Fetch(ctx)
}

// Delete removes id remotely. On success the item leaves the held page and
// the total shrinks by one; the page is not re-fetched, so it may hold
// fewer items than a full page until the next fetch.
func (l *List[T]) Delete(ctx context.Context, id string) error {
	if err := l.source.Delete(ctx, id); err != nil {
		l.mu.Lock()
		l.err = api.Message(err, l.messages.delete)
		l.mu.Unlock()
		l.logger.Warn("delete failed", slog.String("id", id), slog.Any("error", err))
		l.notify()
		return err
	}

	l.mu.Lock()
	kept := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if item.Key() != id {
			kept = append(kept, item)
		}
	}
	l.items = kept
	if l.pagination.TotalItems > 0 {
		l.pagination.TotalItems--
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *List[T]) beginLocked() uint64 {
	l.issued++
	l.inflight++
	return l.issued
}

func (l *List[T]) run(ctx context.Context, token uint64, query models.ListQuery) error {
	page, err := l.source.List(ctx, query)

	l.mu.Lock()
	l.inflight--
	if token != l.issued {
		l.mu.Unlock()
		l.logger.Debug("discarding superseded response", slog.Uint64("token", token))
		l.notify()
		return ErrSuperseded
	}
	if err != nil {
		l.err = api.Message(err, l.messages.fetch)
		l.mu.Unlock()
		l.logger.Warn("fetch failed",
			slog.Int("page", query.Page),
			slog.String("search", query.Search),
			slog.Any("error", err),
		)
		l.notify()
		return err
	}
	l.items = page.Items
	if l.items == nil {
		l.items = []T{}
	}
	l.pagination = page.Pagination
	l.fallback = page.Fallback
	l.err = ""
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *List[T]) snapshotLocked() State[T] {
	items := make([]T, len(l.items))
	copy(items, l.items)
	return State[T]{
		Query:      l.query,
		Items:      items,
		Pagination: l.pagination,
		Loading:    l.inflight > 0,
		Error:      l.err,
		Fallback:   l.fallback,
	}
}

func (l *List[T]) notify() {
	l.mu.Lock()
	fn := l.onChange
	var state State[T]
	if fn != nil {
		state = l.snapshotLocked()
	}
	l.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
