package scrape

import (
	"context"
	"time"
)

// PageSession is one isolated page/tab owned by a single job. Implementations
// wrap the render surface; the orchestrator never talks to a browser engine
// directly.
type PageSession interface {
	// Navigate loads url and waits for the document body, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// FillAndSubmit types text into the element at selector and submits it.
	FillAndSubmit(ctx context.Context, selector, text string) error
	// WaitURLContains blocks until the page URL contains fragment or timeout.
	WaitURLContains(ctx context.Context, fragment string, timeout time.Duration) error
	// TextOf returns the inner text of selector, or "" on any lookup miss.
	// It never returns an error.
	TextOf(ctx context.Context, selector string, timeout time.Duration) string
	// RenderedHTML returns the full rendered document markup.
	RenderedHTML(ctx context.Context) (string, error)
	// Location returns the current page URL.
	Location(ctx context.Context) (string, error)
	// CountOf reports how many elements currently match selector.
	CountOf(ctx context.Context, selector string) (int, error)
	// ScrollFeed performs one load-more gesture against the results pane.
	ScrollFeed(ctx context.Context, selector string) error
	// Listings returns handles for up to limit elements matching selector.
	Listings(ctx context.Context, selector string, limit int) ([]ListingHandle, error)
	// Close releases the page. Safe to call on every exit path.
	Close() error
}

// ListingHandle is one entry of the results pane that can be opened to show
// its detail view in the owning page.
type ListingHandle interface {
	Open(ctx context.Context) error
}

// Browser owns the shared browser instance. Each job creates its own page
// from it and must close that page on every exit path.
type Browser interface {
	NewPage(ctx context.Context) (PageSession, error)
	Close() error
}

// BrowserFactory acquires the shared browser for one run. Failure here is
// the only run-wide abort condition.
type BrowserFactory func(ctx context.Context) (Browser, error)

// ExtractFunc builds a Record from a loaded detail page. Field lookup
// misses become empty strings, never errors.
type ExtractFunc func(ctx context.Context, page PageSession, originQuery string) *Record

// Fetcher retrieves a page body over plain HTTP with a per-request timeout.
// Used by the enrichment prober, which does not need a render surface.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// Pacer spaces requests to the same host. Implementations must be safe for
// concurrent use.
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// Saver persists a finished result set. Empty input is a no-op that returns
// an empty path and no error.
type Saver interface {
	Save(ctx context.Context, records []*Record, nameHint string) (string, error)
}

// ListingSource is the paginator's view of a paginated listing.
type ListingSource interface {
	Count(ctx context.Context) (int, error)
	LoadMore(ctx context.Context) error
	Handles(ctx context.Context, limit int) ([]ListingHandle, error)
}

// feedSource adapts a PageSession plus a results selector to ListingSource.
type feedSource struct {
	page     PageSession
	selector string
}

// NewFeedSource wraps the results pane of page behind the ListingSource
// contract used by the Paginator.
func NewFeedSource(page PageSession, selector string) ListingSource {
	return &feedSource{page: page, selector: selector}
}

func (f *feedSource) Count(ctx context.Context) (int, error) {
	return f.page.CountOf(ctx, f.selector)
}

func (f *feedSource) LoadMore(ctx context.Context) error {
	return f.page.ScrollFeed(ctx, f.selector)
}

func (f *feedSource) Handles(ctx context.Context, limit int) ([]ListingHandle, error) {
	return f.page.Listings(ctx, f.selector, limit)
}
