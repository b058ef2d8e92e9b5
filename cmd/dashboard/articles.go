package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-live-dashboard/api"
	"github.com/aluiziolira/go-live-dashboard/export"
	"github.com/aluiziolira/go-live-dashboard/feed"
	"github.com/aluiziolira/go-live-dashboard/models"
	"github.com/aluiziolira/go-live-dashboard/view"
)

func (a *app) articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"news"},
		Short:   "Browse scraped news articles",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(models.ArticlesDomain, a.cfg.PageSize)
			if err != nil {
				return err
			}
			articles := feed.NewArticles(a.articles, feed.Options{Logger: a.logger, Initial: opts})
			return runList(cmd.Context(), a, articles, "articles", view.Articles, export.ArticleSchema, &lf)
		},
	}
	lf.register(list, models.ArticlesDomain)

	var recentLimit, topLimit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently scraped articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := feed.NewRecentArticles(a.articles.Recent, recentLimit, a.logger)
			if err := c.Fetch(cmd.Context()); err != nil {
				return err
			}
			return view.Articles(a.out, c.State().Items, a.now())
		},
	}
	limitFlag(recent, &recentLimit, feed.DefaultRecentLimit)

	top := &cobra.Command{
		Use:   "top",
		Short: "Show the highest scored articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := feed.NewTopArticles(a.articles.Top, topLimit, a.logger)
			if err := c.Fetch(cmd.Context()); err != nil {
				return err
			}
			return view.Articles(a.out, c.State().Items, a.now())
		},
	}
	limitFlag(top, &topLimit, feed.DefaultTopLimit)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := a.articles.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get article %s: %s", args[0], api.Message(err, "Failed to fetch article"))
			}
			if err := view.Articles(a.out, []models.Article{*article}, a.now()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, article.Link)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.articles.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete article %s: %s", args[0], api.Message(err, "Failed to delete article"))
			}
			fmt.Fprintf(a.out, "Deleted article %s\n", args[0])
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show the news feed summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := feed.NewArticleStats(a.articles, a.logger)
			if err := s.FetchStats(cmd.Context()); err != nil {
				return err
			}
			return view.ArticleStats(a.out, s.State().Summary, a.now())
		},
	}

	scrape := &cobra.Command{
		Use:   "scrape",
		Short: "Ask the backend to scrape new articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := feed.NewArticleStats(a.articles, a.logger)
			result, err := s.TriggerScraping(cmd.Context())
			if err != nil {
				return fmt.Errorf("trigger scrape: %s", s.State().Error)
			}
			printScrape(a, result)
			return view.ArticleStats(a.out, s.State().Summary, a.now())
		},
	}

	cmd.AddCommand(list, recent, top, get, del, stats, scrape)
	return cmd
}

func printScrape(a *app, result *models.ScrapeResult) {
	msg := result.Message
	if msg == "" {
		msg = "Scraping started"
	}
	fmt.Fprintln(a.out, msg)
}
