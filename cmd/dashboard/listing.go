package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-live-dashboard/export"
	"github.com/aluiziolira/go-live-dashboard/feed"
	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/view"
)

// listFlags are the query and export flags shared by the list commands.
type listFlags struct {
	page   int
	limit  int
	search string
	sortBy string
	order  string
	output string
	format string
}

func (f *listFlags) register(cmd *cobra.Command, domain models.Domain) {
	fs := cmd.Flags()
	fs.IntVar(&f.page, "page", 1, "page number")
	fs.IntVar(&f.limit, "limit", 0, fmt.Sprintf("page size, one of %v (default: configured page size)", models.PageSizes))
	fs.StringVar(&f.search, "search", "", "search term")
	fs.StringVar(&f.sortBy, "sort", domain.Default.SortBy, fmt.Sprintf("sort field %v", domain.SortFields))
	fs.StringVar(&f.order, "order", string(domain.Default.SortOrder), "sort order (asc or desc)")
	fs.StringVarP(&f.output, "output", "o", "", "also export the page to this path (extension added)")
	fs.StringVar(&f.format, "format", "csv", "export format: csv, jsonl or both")
}

func (f *listFlags) options(domain models.Domain, pageSize int) ([]models.QueryOption, error) {
	order := models.SortOrder(f.order)
	limit := f.limit
	if limit == 0 {
		limit = pageSize
	}
	if !domain.AllowsSort(f.sortBy) {
		return nil, fmt.Errorf("%w: %s cannot be sorted by %q", feed.ErrInvalidQuery, domain.Name, f.sortBy)
	}
	if !order.Valid() {
		return nil, fmt.Errorf("%w: sort order %q", feed.ErrInvalidQuery, f.order)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: page size %d", feed.ErrInvalidQuery, limit)
	}
	if f.page <= 0 {
		return nil, fmt.Errorf("%w: page %d", feed.ErrInvalidQuery, f.page)
	}
	return []models.QueryOption{
		models.WithPage(f.page),
		models.WithLimit(limit),
		models.WithSearch(f.search),
		models.WithSort(f.sortBy, order),
	}, nil
}

type renderFunc[T any] func(w io.Writer, items []T, now time.Time) error

// renderPage prints a held page with its footer and any error or demo notice.
func renderPage[T any](w io.Writer, state feed.State[T], noun string, render renderFunc[T], now time.Time) error {
	if state.Fallback {
		color.New(color.FgYellow).Fprintln(w, "API unavailable: showing demo data")
	}
	if err := render(w, state.Items, now); err != nil {
		return err
	}
	fmt.Fprintln(w, view.PaginationFooter(state.Pagination, noun))
	if state.Error != "" {
		printError(w, state.Error)
	}
	return nil
}

// runList fetches one page and prints it, exporting it when asked.
func runList[T models.Keyed](ctx context.Context, a *app, list *feed.List[T], noun string, render renderFunc[T], schema export.Schema[T], f *listFlags) error {
	if err := list.Refresh(ctx); err != nil {
		return err
	}
	state := list.State()
	if err := renderPage(a.out, state, noun, render, a.now()); err != nil {
		return err
	}
	if f.output == "" {
		return nil
	}
	return exportItems(a, state.Items, schema, f)
}

func exportItems[T any](a *app, items []T, schema export.Schema[T], f *listFlags) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	writer, err := export.Open(format, f.output, schema)
	if err != nil {
		return err
	}
	if err := writer.Write(items); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	a.logger.Info("page exported",
		slog.String("path", f.output),
		slog.String("format", string(format)),
		slog.Int("items", len(items)),
	)
	return nil
}

func limitFlag(cmd *cobra.Command, target *int, def int) {
	cmd.Flags().IntVar(target, "limit", def, "number of items")
}
