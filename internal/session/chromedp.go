// Package session implements the render surface on top of chromedp and
// headless Chrome. One Browser is shared by the whole run; each job owns
// its own Page (tab), created concurrently and closed on every exit path.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/scrape"
)

// Config controls the shared browser instance.
type Config struct {
	Headless  bool
	UserAgent string
}

// Browser wraps a chromedp allocator plus the browser context all pages
// hang off. It implements scrape.Browser.
type Browser struct {
	cfg         Config
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger
}

// NewBrowser launches the shared browser process. Failure here aborts the
// whole run.
func NewBrowser(ctx context.Context, cfg Config, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return &Browser{
		cfg:         cfg,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      cancel,
		logger:      logger,
	}, nil
}

// NewPage opens an isolated tab. Page creation off the shared browser
// context is safe to call concurrently.
func (b *Browser) NewPage(ctx context.Context) (scrape.PageSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pageCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(pageCtx, b.pageSetup()); err != nil {
		cancel()
		return nil, fmt.Errorf("open page: %w", err)
	}
	return &Page{ctx: pageCtx, cancel: cancel}, nil
}

// pageSetup enables the network domain and applies the user agent to the
// fresh tab.
func (b *Browser) pageSetup() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if b.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(b.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

// Close tears down the browser process and its allocator.
func (b *Browser) Close() error {
	b.cancel()
	b.allocCancel()
	return nil
}

// Page is one chromedp tab. It implements scrape.PageSession.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions against the tab, bounded by timeout when positive.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := p.ctx
	var cancel context.CancelFunc = func() {}
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
	}
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// Navigate loads url and waits for the document body.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	err := p.run(ctx, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// FillAndSubmit types text into selector and presses Enter.
func (p *Page) FillAndSubmit(ctx context.Context, selector, text string) error {
	err := p.run(ctx, 15*time.Second,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
		chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

// WaitURLContains polls the page URL until it contains fragment.
func (p *Page) WaitURLContains(ctx context.Context, fragment string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		loc, err := p.Location(ctx)
		if err == nil && strings.Contains(loc, fragment) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("url did not contain %q within %s", fragment, timeout)
		}
		select {
		case <-time.After(250 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TextOf returns the trimmed inner text of selector, or "" on any miss.
func (p *Page) TextOf(ctx context.Context, selector string, timeout time.Duration) string {
	var text string
	err := p.run(ctx, timeout,
		chromedp.Text(selector, &text, chromedp.ByQuery),
	)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// RenderedHTML returns the full rendered document markup.
func (p *Page) RenderedHTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, 15*time.Second, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

// Location returns the current page URL.
func (p *Page) Location(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, 5*time.Second, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

// CountOf reports how many elements currently match selector.
func (p *Page) CountOf(ctx context.Context, selector string) (int, error) {
	var count int
	expr := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := p.run(ctx, 5*time.Second, chromedp.Evaluate(expr, &count)); err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return count, nil
}

// ScrollFeed scrolls the last matching element into view, which makes the
// results pane load its next batch.
func (p *Page) ScrollFeed(ctx context.Context, selector string) error {
	expr := fmt.Sprintf(
		`(() => { const els = document.querySelectorAll(%q); if (els.length) { els[els.length-1].scrollIntoView({block: "end"}); } })()`,
		selector,
	)
	if err := p.run(ctx, 5*time.Second, chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("scroll feed: %w", err)
	}
	return nil
}

// Listings returns clickable handles for up to limit matching elements.
func (p *Page) Listings(ctx context.Context, selector string, limit int) ([]scrape.ListingHandle, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, 10*time.Second,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("locate listings: %w", err)
	}
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	handles := make([]scrape.ListingHandle, 0, len(nodes))
	for _, node := range nodes {
		handles = append(handles, &listing{page: p, node: node})
	}
	return handles, nil
}

// Close releases the tab.
func (p *Page) Close() error {
	p.cancel()
	return nil
}

// listing is one clickable entry of the results pane.
type listing struct {
	page *Page
	node *cdp.Node
}

// Open clicks the listing and waits for its detail pane to render.
func (l *listing) Open(ctx context.Context) error {
	err := l.page.run(ctx, 15*time.Second,
		chromedp.MouseClickNode(l.node),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("open listing: %w", err)
	}
	return nil
}
