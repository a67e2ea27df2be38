package scrape

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/metrics"
)

// queryJob drives one search query end to end: navigate, search, paginate,
// extract, collect. It owns exactly one page for its lifetime.
type queryJob struct {
	coord   *Coordinator
	browser Browser
	query   string
	target  int
}

func (j *queryJob) Name() string { return "query:" + j.query }

func (j *queryJob) Run(ctx context.Context) error {
	c := j.coord

	if err := c.gate.AwaitOpen(ctx); err != nil {
		return err
	}
	page, err := j.browser.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			c.logger.Debug("close page", zap.String("query", j.query), zap.Error(cerr))
		}
	}()

	if err := j.search(ctx, page); err != nil {
		return err
	}

	src := NewFeedSource(page, c.cfg.ResultsSelector)
	handles, err := c.paginator.Collect(ctx, src, j.target)
	if err != nil {
		return fmt.Errorf("collect listings: %w", err)
	}

	if len(handles) == 0 {
		return j.scrapeSinglePage(ctx, page)
	}
	return j.scrapeListings(ctx, page, handles)
}

// search loads the maps endpoint and submits the query.
func (j *queryJob) search(ctx context.Context, page PageSession) error {
	c := j.coord
	if err := page.Navigate(ctx, c.cfg.MapsURL, c.cfg.NavTimeout); err != nil {
		return NewNavError(c.cfg.MapsURL, err)
	}
	if err := c.gate.AwaitOpen(ctx); err != nil {
		return err
	}
	if err := page.FillAndSubmit(ctx, c.cfg.SearchInputSelector, j.query); err != nil {
		return fmt.Errorf("submit query %q: %w", j.query, err)
	}
	c.statusf("Searching for %q...", j.query)

	// Unique queries skip the results list and land on the place page
	// directly, so a missed transition is not fatal.
	if err := page.WaitURLContains(ctx, "/search/", c.cfg.SearchTimeout); err != nil {
		c.logger.Debug("no results-list URL transition",
			zap.String("query", j.query), zap.Error(err))
	}
	return nil
}

// scrapeSinglePage handles the no-list case: the query resolved straight to
// one detail page.
func (j *queryJob) scrapeSinglePage(ctx context.Context, page PageSession) error {
	c := j.coord
	c.statusf("No list found for %q. Checking for a single result page.", j.query)

	record := c.extract(ctx, page, j.query)
	if record == nil || record.DisplayName == "" {
		return nil
	}
	if c.collector.Add(record) {
		metrics.RecordsAdded(1)
		c.statusf("Scraped single business for %q: %s", j.query, record.DisplayName)
	}
	return nil
}

// scrapeListings opens each listing in turn and extracts its record.
// Per-listing failures are logged and skipped.
func (j *queryJob) scrapeListings(ctx context.Context, page PageSession, handles []ListingHandle) error {
	c := j.coord
	c.statusf("Found %d listings for %q. Extracting data...", len(handles), j.query)

	for i, handle := range handles {
		if err := c.gate.AwaitOpen(ctx); err != nil {
			return err
		}
		if err := handle.Open(ctx); err != nil {
			c.logger.Warn("open listing failed",
				zap.String("query", j.query), zap.Int("index", i), zap.Error(err))
			continue
		}
		record := c.extract(ctx, page, j.query)
		if record == nil || record.DisplayName == "" {
			continue
		}
		if c.collector.Add(record) {
			metrics.RecordsAdded(1)
		}
		if (i+1)%5 == 0 {
			c.statusf("  (%d/%d) Scraped for %q.", i+1, len(handles), j.query)
		}
	}
	c.statusf("Data extraction for query %q is completed.", j.query)
	return nil
}

// enrichmentJob runs the e-mail prober for one record. It is the record's
// single owner during the enrichment phase, so the EmailAddresses write
// needs no lock.
type enrichmentJob struct {
	coord  *Coordinator
	record *Record
}

func (j *enrichmentJob) Name() string { return "enrich:" + j.record.DisplayName }

func (j *enrichmentJob) Run(ctx context.Context) error {
	c := j.coord
	if err := c.gate.AwaitOpen(ctx); err != nil {
		return err
	}
	emails, err := c.prober.Probe(ctx, j.record.WebsiteURL)
	if err != nil {
		return err
	}
	if len(emails) > 0 {
		j.record.EmailAddresses = emails
		metrics.EmailsFound(len(emails))
	}
	return nil
}
