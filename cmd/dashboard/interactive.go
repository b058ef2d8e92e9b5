package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-live-dashboard/dashboard"
	"github.com/aluiziolira/go-live-dashboard/feed"
	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/view"
)

const sessionHelp = `commands:
  search <term>          filter by a search term (search with no term clears it)
  sort <field> [order]   sort by field, asc or desc (keeps the order when omitted)
  page <n>               go to page n
  size <n>               set the page size
  clear                  drop the search and restore the default sort
  reload                 re-fetch the current page
  refresh                re-fetch the page and trigger a scrape
  delete <id>            delete an item
  scrape                 trigger a scrape
  stats                  show the summary
  help                   show this help
  quit                   leave the session`

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "interactive <news|crypto>",
		Aliases:   []string{"i"},
		Short:     "Browse a feed page by page",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"news", "crypto"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := feed.Options{
				Logger:  a.logger,
				Initial: []models.QueryOption{models.WithLimit(a.cfg.PageSize)},
			}
			switch args[0] {
			case "news", "articles":
				news := dashboard.NewNews(a.articles, opts)
				return runSession(cmd.Context(), a, &session[models.Article, models.ArticleStats]{
					noun:        "articles",
					screen:      news,
					list:        news.Articles,
					stats:       news.Stats,
					render:      view.Articles,
					renderStats: view.ArticleStats,
				})
			case "crypto", "markets":
				markets := dashboard.NewMarkets(a.crypto, opts)
				return runSession(cmd.Context(), a, &session[models.CryptoSnapshot, models.CryptoStats]{
					noun:        "cryptocurrencies",
					screen:      markets,
					list:        markets.Crypto,
					stats:       markets.Stats,
					render:      view.Crypto,
					renderStats: view.CryptoStats,
				})
			}
			return fmt.Errorf("unknown feed %q (want news or crypto)", args[0])
		},
	}
}

type screen interface {
	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// session drives one screen from line commands.
type session[T models.Keyed, S any] struct {
	noun        string
	screen      screen
	list        *feed.List[T]
	stats       *feed.Stats[S]
	render      renderFunc[T]
	renderStats func(w io.Writer, s *S, now time.Time) error
}

type sessionRunner interface {
	mount(ctx context.Context, a *app) error
	exec(ctx context.Context, a *app, args []string) (quit bool, err error)
}

func runSession(ctx context.Context, a *app, s sessionRunner) error {
	if err := s.mount(ctx, a); err != nil {
		return err
	}

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			printError(a.out, err.Error())
			continue
		}
		if len(args) == 0 {
			continue
		}

		quit, err := s.exec(ctx, a, args)
		if err != nil {
			printError(a.out, err.Error())
		}
		if quit {
			return nil
		}
	}
}

func (s *session[T, S]) mount(ctx context.Context, a *app) error {
	if err := s.screen.Mount(ctx); err != nil {
		a.logger.Debug("initial load incomplete", slog.Any("error", err))
	}
	if err := s.renderStats(a.out, s.stats.State().Summary, a.now()); err != nil {
		return err
	}
	return s.show(a)
}

func (s *session[T, S]) exec(ctx context.Context, a *app, args []string) (bool, error) {
	var err error
	switch cmd, rest := strings.ToLower(args[0]), args[1:]; cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(a.out, sessionHelp)
		return false, nil
	case "stats":
		if err := s.stats.FetchStats(ctx); err != nil {
			return false, errors.New(s.stats.State().Error)
		}
		return false, s.renderStats(a.out, s.stats.State().Summary, a.now())
	case "scrape":
		result, err := s.stats.TriggerScraping(ctx)
		if err != nil {
			return false, errors.New(s.stats.State().Error)
		}
		printScrape(a, result)
		return false, nil
	case "search":
		err = s.list.Search(ctx, strings.Join(rest, " "))
	case "sort":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: sort <field> [asc|desc], fields: %s", strings.Join(s.list.Domain().SortFields, ", "))
		}
		order := s.list.State().Query.SortOrder
		if len(rest) > 1 {
			order = models.SortOrder(strings.ToLower(rest[1]))
		}
		err = s.list.Sort(ctx, rest[0], order)
	case "page":
		n, perr := intArg(rest, "page <n>")
		if perr != nil {
			return false, perr
		}
		err = s.list.ChangePage(ctx, n)
	case "size":
		n, perr := intArg(rest, "size <n>")
		if perr != nil {
			return false, perr
		}
		err = s.list.ChangePageSize(ctx, n)
	case "clear":
		err = s.list.ClearFilters(ctx)
	case "reload":
		err = s.list.Refresh(ctx)
	case "refresh":
		if err := s.screen.Refresh(ctx); err != nil {
			if msg := s.stats.State().Error; msg != "" {
				printError(a.out, msg)
			}
		}
	case "delete":
		if len(rest) != 1 {
			return false, errors.New("usage: delete <id>")
		}
		if err := s.list.Delete(ctx, rest[0]); err == nil {
			fmt.Fprintf(a.out, "Deleted %s\n", rest[0])
		}
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	// Request failures are recorded in the held state and shown with it.
	if errors.Is(err, feed.ErrInvalidQuery) {
		return false, err
	}
	return false, s.show(a)
}

func (s *session[T, S]) show(a *app) error {
	return renderPage(a.out, s.list.State(), s.noun, s.render, a.now())
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s: %q is not a number", usage, args[0])
	}
	return n, nil
}

func printError(w io.Writer, msg string) {
	color.New(color.FgRed).Fprintf(w, "Error: %s\n", msg)
}
