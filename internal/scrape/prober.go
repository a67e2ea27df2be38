package scrape

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/status"
)

// ProberConfig tunes the e-mail discovery state machine.
type ProberConfig struct {
	// FallbackPaths are candidate path suffixes appended to the site base
	// URL when the primary page yields no match, tried in order.
	FallbackPaths []string
	// PrimaryTimeout bounds the primary-page fetch.
	PrimaryTimeout time.Duration
	// FallbackTimeout bounds each contact-page candidate fetch.
	FallbackTimeout time.Duration
}

// Prober discovers e-mail addresses for one record's website. Stages:
// primary page first, then the ordered fallback candidates; the first stage
// that yields one or more addresses wins and later stages never run. A hit
// replaces nothing because earlier stages only hand over when empty.
type Prober struct {
	cfg      ProberConfig
	fetcher  Fetcher
	pacer    Pacer
	gate     *Gate
	reporter status.Reporter
	logger   *zap.Logger
}

// NewProber builds a Prober. pacer, gate and reporter may be nil.
func NewProber(
	cfg ProberConfig,
	fetcher Fetcher,
	pacer Pacer,
	gate *Gate,
	reporter status.Reporter,
	logger *zap.Logger,
) *Prober {
	if cfg.PrimaryTimeout <= 0 {
		cfg.PrimaryTimeout = 20 * time.Second
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 8 * time.Second
	}
	if reporter == nil {
		reporter = status.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		cfg:      cfg,
		fetcher:  fetcher,
		pacer:    pacer,
		gate:     gate,
		reporter: reporter,
		logger:   logger,
	}
}

// Probe returns the e-mail addresses discovered for websiteURL, or nil.
// An empty URL is a no-op. Network failures are reported as warnings and
// never returned as errors; the only error is context cancellation.
func (p *Prober) Probe(ctx context.Context, websiteURL string) ([]string, error) {
	websiteURL = strings.TrimSpace(websiteURL)
	if websiteURL == "" {
		return nil, nil
	}

	body, err := p.fetch(ctx, websiteURL, p.cfg.PrimaryTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		navErr := NewNavError(websiteURL, err)
		p.reporter.Report(navErr.Describe())
		p.logger.Warn("primary page fetch failed",
			zap.String("url", websiteURL),
			zap.String("cause", string(navErr.Cause)),
			zap.Error(err),
		)
		return nil, nil
	}
	if emails := ExtractEmails(body); len(emails) > 0 {
		return emails, nil
	}

	base := strings.TrimRight(websiteURL, "/")
	for _, suffix := range p.cfg.FallbackPaths {
		candidate := base + suffix
		body, err := p.fetch(ctx, candidate, p.cfg.FallbackTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Missing contact pages are expected; move to the next candidate.
			p.logger.Debug("fallback candidate fetch failed",
				zap.String("url", candidate), zap.Error(err))
			continue
		}
		if emails := ExtractEmails(body); len(emails) > 0 {
			return emails, nil
		}
	}
	return nil, nil
}

// fetch runs the gate checkpoint and host pacing, then retrieves url.
func (p *Prober) fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if p.gate != nil {
		if err := p.gate.AwaitOpen(ctx); err != nil {
			return "", err
		}
	}
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx, url); err != nil {
			return "", err
		}
	}
	return p.fetcher.Fetch(ctx, url, timeout)
}
