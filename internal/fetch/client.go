// Package fetch implements a lightweight HTTP page fetcher using Colly.
// The enrichment pass uses it instead of a browser tab: contact pages are
// plain documents and a rendered DOM buys nothing there.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	IgnoreRobots bool
}

// Client fetches single pages. Safe for concurrent use; each Fetch clones
// the base collector.
type Client struct {
	cfg    Config
	base   *colly.Collector
	logger *zap.Logger
}

// New builds a Client with a pooled transport.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false))
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.IgnoreRobotsTxt = cfg.IgnoreRobots
	// Clones share the visited-URL store; probing the same site twice in one
	// run must not short-circuit with ErrAlreadyVisited.
	c.AllowURLRevisit = true
	c.WithTransport(&http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	return &Client{cfg: cfg, base: c, logger: logger}
}

// Fetch executes a single HTTP GET and returns the body, bounded by timeout
// and the context.
func (c *Client) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	collector := c.base.Clone()
	if timeout > 0 {
		collector.SetRequestTimeout(timeout)
	}

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		err := collector.Visit(rawURL)
		collector.Wait()
		done <- err
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetch %s canceled: %w", rawURL, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("visit %s: %w", rawURL, err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
		}
		return string(body), nil
	}
}
