package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-live-dashboard/api"
	"github.com/aluiziolira/go-live-dashboard/config"
)

// app holds the flags and the clients shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// transport replaces the HTTP transport of both clients when set.
	transport http.RoundTripper
	now       func() time.Time

	configFile   string
	apiURL       string
	cryptoURL    string
	timeout      time.Duration
	demoFallback bool
	metricsAddr  string
	verbose      bool
	noColor      bool

	cfg           *config.Config
	logger        *slog.Logger
	metrics       *api.Metrics
	client        *api.Client
	cryptoClient  *api.Client
	articles      *api.ArticlesService
	crypto        *api.CryptoService
	metricsServer *http.Server
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, now: time.Now}
}

func (a *app) command() *cobra.Command {
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Terminal client for the scraped news and crypto API",
		Long: `dashboard browses the articles and market data collected by the scraper
backend, triggers new scrapes, and exports pages to CSV or JSON lines.

Example usage:
  dashboard articles list --sort score --order desc
  dashboard crypto list --demo-fallback
  dashboard crypto symbol btc
  dashboard interactive news`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.StringVar(&a.apiURL, "api-url", defaults.BaseURL, "API base URL")
	flags.StringVar(&a.cryptoURL, "crypto-api-url", "", "crypto API base URL (default: --api-url)")
	flags.DurationVar(&a.timeout, "timeout", defaults.Timeout, "request timeout")
	flags.BoolVar(&a.demoFallback, "demo-fallback", false, "serve demo crypto data when the API is unreachable")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.articlesCmd(),
		a.cryptoCmd(),
		a.healthCmd(),
		a.interactiveCmd(),
	)
	return root
}

// setup layers defaults, the config file, the environment and the flags,
// then builds the clients.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if a.configFile != "" {
		if err := cfg.LoadFile(a.configFile); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("api-url") {
		cfg.BaseURL = a.apiURL
	}
	if changed("crypto-api-url") {
		cfg.CryptoBaseURL = a.cryptoURL
	}
	if changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if changed("demo-fallback") {
		cfg.DemoFallback = a.demoFallback
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = a.metricsAddr
	}
	if changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if a.noColor {
		color.NoColor = true
	}
	logger, _ := newLogger(cfg.Verbose, a.errOut)
	a.logger = logger

	a.metrics = api.NewMetrics()
	opts := []api.Option{api.WithLogger(logger), api.WithMetrics(a.metrics)}
	if a.transport != nil {
		opts = append(opts, api.WithTransport(a.transport))
	}

	client, err := api.NewClient(cfg, opts...)
	if err != nil {
		return err
	}
	cryptoClient, err := api.NewClient(cfg, append(opts, api.WithBaseURL(cfg.CryptoURL()))...)
	if err != nil {
		return err
	}
	a.client = client
	a.cryptoClient = cryptoClient
	a.articles = api.NewArticlesService(client)
	a.crypto = api.NewCryptoService(cryptoClient)

	logger.Debug("configuration loaded",
		slog.String("base_url", cfg.BaseURL),
		slog.String("crypto_url", cfg.CryptoURL()),
		slog.Duration("timeout", cfg.Timeout),
		slog.Bool("demo_fallback", cfg.DemoFallback),
	)

	if cfg.MetricsAddr != "" {
		a.metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		logger.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}
	return nil
}

func (a *app) teardown() error {
	if a.metricsServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		a.logger.Error("metrics server shutdown failed", slog.Any("error", err))
	}
	a.metricsServer = nil
	return nil
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients := []*api.Client{a.client}
			if a.cfg.CryptoURL() != a.cfg.BaseURL {
				clients = append(clients, a.cryptoClient)
			}

			var errs []error
			for _, client := range clients {
				status, err := client.Health(cmd.Context())
				if err != nil {
					errs = append(errs, fmt.Errorf("health check %s: %s", client.BaseURL(), api.Message(err, "API unreachable")))
					continue
				}
				fmt.Fprintf(a.out, "%s: %s", client.BaseURL(), status.Status)
				if status.Message != "" {
					fmt.Fprintf(a.out, " (%s)", status.Message)
				}
				fmt.Fprintln(a.out)
			}
			return errors.Join(errs...)
		},
	}
}
