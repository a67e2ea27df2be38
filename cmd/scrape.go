package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/config"
	"github.com/mapleads/lead-harvester/internal/control"
	"github.com/mapleads/lead-harvester/internal/extract"
	"github.com/mapleads/lead-harvester/internal/fetch"
	"github.com/mapleads/lead-harvester/internal/logging"
	"github.com/mapleads/lead-harvester/internal/metrics"
	"github.com/mapleads/lead-harvester/internal/persist"
	"github.com/mapleads/lead-harvester/internal/ratelimit"
	"github.com/mapleads/lead-harvester/internal/scrape"
	"github.com/mapleads/lead-harvester/internal/session"
	"github.com/mapleads/lead-harvester/internal/status"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
func newScrapeCmd() *cobra.Command {
	var (
		target      int
		headless    bool
		controlAddr string
	)

	cmd := &cobra.Command{
		Use:   "scrape [queries...]",
		Short: "Runs a harvest for the given search queries",
		Long: `Runs one query job per search query under the shared worker budget,
then one enrichment job per collected record, and saves the final result
set. The run can be paused and resumed through the control server.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("target") {
				cfg.Scrape.Target = target
			}
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = headless
			}
			if cmd.Flags().Changed("control-addr") {
				cfg.Control.Addr = controlAddr
				cfg.Control.Enabled = controlAddr != ""
			}
			return runScrape(cmd.Context(), cfg, args)
		},
	}

	cmd.Flags().IntVar(&target, "target", 0, "target result count per query (0 = unbounded)")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	cmd.Flags().StringVar(&controlAddr, "control-addr", "", "pause/resume control listen address (empty = config default)")
	return cmd
}

func runScrape(parent context.Context, cfg config.Config, queries []string) error {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := scrape.NewGate()
	collector := scrape.NewCollector()
	hub := status.NewHub(64, status.NewLog(logger))

	if cfg.Control.Enabled {
		srv := control.NewServer(gate, hub, collector, logger)
		go func() {
			if err := srv.Start(ctx, cfg.Control.Addr); err != nil {
				logger.Warn("control server stopped", zap.Error(err))
			}
		}()
		logger.Info("control server listening", zap.String("addr", cfg.Control.Addr))
	}

	savers, closeSavers, err := buildSavers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSavers()

	concurrency := cfg.Scrape.Concurrency
	if concurrency <= 0 {
		concurrency = scrape.DefaultConcurrency()
	}

	fetcher := fetch.New(fetch.Config{
		UserAgent:    cfg.Browser.UserAgent,
		IgnoreRobots: true,
	}, logger)
	pacer := ratelimit.New(cfg.Enrich.HostRPS, cfg.Enrich.HostBurst)
	prober := scrape.NewProber(scrape.ProberConfig{
		FallbackPaths:   cfg.Enrich.FallbackPaths,
		PrimaryTimeout:  cfg.Enrich.PrimaryTimeout(),
		FallbackTimeout: cfg.Enrich.FallbackTimeout(),
	}, fetcher, pacer, gate, hub, logger)

	selectors := extract.Default()
	coordinator := scrape.NewCoordinator(scrape.Config{
		MapsURL:             cfg.Scrape.MapsURL,
		SearchInputSelector: selectors.SearchInput,
		ResultsSelector:     selectors.ResultsList,
		Target:              cfg.Scrape.Target,
		NavTimeout:          cfg.Scrape.NavTimeout(),
		SearchTimeout:       cfg.Scrape.SearchTimeout(),
	}, scrape.Deps{
		NewBrowser: func(ctx context.Context) (scrape.Browser, error) {
			return session.NewBrowser(ctx, session.Config{
				Headless:  cfg.Browser.Headless,
				UserAgent: cfg.Browser.UserAgent,
			}, logger)
		},
		Gate:      gate,
		Collector: collector,
		Scheduler: scrape.NewScheduler(concurrency, logger),
		Paginator: &scrape.Paginator{
			Gate:        gate,
			InitialWait: cfg.Scrape.InitialWait(),
			Settle:      cfg.Scrape.Settle(),
			Logger:      logger,
		},
		Prober: prober,
		Extract: func(ctx context.Context, page scrape.PageSession, originQuery string) *scrape.Record {
			return extract.FromSession(ctx, page, selectors, originQuery)
		},
		Savers:   savers,
		Reporter: hub,
		Logger:   logger,
	})

	report, err := coordinator.Run(ctx, queries)
	switch {
	case errors.Is(err, scrape.ErrNoQueries):
		return fmt.Errorf("no valid search queries; pass at least one query argument")
	case err != nil:
		return fmt.Errorf("run harvest: %w", err)
	}

	logger.Info("harvest complete",
		zap.String("run_id", report.RunID),
		zap.Int("records", len(report.Records)),
		zap.Int("failed_jobs", report.FailedJobs()),
		zap.Strings("outputs", report.OutputPaths),
	)
	return nil
}

// buildSavers assembles the persistence chain from config: always CSV when
// an output dir is set, plus Postgres when a DSN is configured.
func buildSavers(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]scrape.Saver, func(), error) {
	var (
		savers  []scrape.Saver
		closers []func()
	)
	if cfg.Persist.OutputDir != "" {
		savers = append(savers, persist.NewCSV(cfg.Persist.OutputDir, logger))
	}
	if cfg.Persist.PostgresDSN != "" {
		pg, err := persist.NewPostgres(ctx, cfg.Persist.PostgresDSN, cfg.Persist.Table, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres saver: %w", err)
		}
		savers = append(savers, pg)
		closers = append(closers, pg.Close)
	}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return savers, closeAll, nil
}
