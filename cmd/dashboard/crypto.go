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

func (a *app) cryptoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crypto",
		Aliases: []string{"markets"},
		Short:   "Browse cryptocurrency market data",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of market snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(models.CryptoDomain, a.cfg.PageSize)
			if err != nil {
				return err
			}
			crypto := feed.NewCrypto(a.crypto, feed.Options{Logger: a.logger, Initial: opts})
			return runList(cmd.Context(), a, crypto, "cryptocurrencies", view.Crypto, export.CryptoSchema, &lf)
		},
	}
	lf.register(list, models.CryptoDomain)

	var topLimit, latestLimit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Show the top ranked cryptocurrencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := feed.NewTopCrypto(a.crypto.Top, topLimit, a.logger)
			if err := c.Fetch(cmd.Context()); err != nil {
				return err
			}
			return view.Crypto(a.out, c.State().Items, a.now())
		},
	}
	limitFlag(top, &topLimit, feed.DefaultTopLimit)

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent market snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := feed.NewLatestCrypto(a.crypto.Latest, latestLimit, a.logger)
			if err := c.Fetch(cmd.Context()); err != nil {
				return err
			}
			return view.Crypto(a.out, c.State().Items, a.now())
		},
	}
	limitFlag(latest, &latestLimit, feed.DefaultLatestLimit)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one snapshot by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.crypto.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get crypto %s: %s", args[0], api.Message(err, "Failed to fetch cryptocurrency"))
			}
			return view.Crypto(a.out, []models.CryptoSnapshot{*snapshot}, a.now())
		},
	}

	symbol := &cobra.Command{
		Use:   "symbol <symbol>",
		Short: "Show the latest snapshot for a ticker symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.crypto.BySymbol(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get symbol %s: %s", args[0], api.Message(err, "Failed to fetch cryptocurrency"))
			}
			return view.Crypto(a.out, []models.CryptoSnapshot{*snapshot}, a.now())
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a market snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.crypto.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete crypto %s: %s", args[0], api.Message(err, "Failed to delete cryptocurrency"))
			}
			fmt.Fprintf(a.out, "Deleted cryptocurrency %s\n", args[0])
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show the market feed summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := feed.NewCryptoStats(a.crypto, a.logger)
			if err := s.FetchStats(cmd.Context()); err != nil {
				return err
			}
			return view.CryptoStats(a.out, s.State().Summary, a.now())
		},
	}

	scrape := &cobra.Command{
		Use:   "scrape",
		Short: "Ask the backend to refresh market data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := feed.NewCryptoStats(a.crypto, a.logger)
			result, err := s.TriggerScraping(cmd.Context())
			if err != nil {
				return fmt.Errorf("trigger scrape: %s", s.State().Error)
			}
			printScrape(a, result)
			return view.CryptoStats(a.out, s.State().Summary, a.now())
		},
	}

	cmd.AddCommand(list, top, latest, get, symbol, del, stats, scrape)
	return cmd
}
