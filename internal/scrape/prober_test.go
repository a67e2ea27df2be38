package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned bodies per URL and records the fetch order.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ time.Duration) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	body, ok := f.bodies[url]
	if !ok {
		return "", errors.New("404")
	}
	return body, nil
}

func newTestProber(f Fetcher, paths []string) *Prober {
	return NewProber(ProberConfig{
		FallbackPaths:   paths,
		PrimaryTimeout:  time.Second,
		FallbackTimeout: time.Second,
	}, f, nil, nil, nil, nil)
}

func TestProbeEmptyURLIsNoOp(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	emails, err := newTestProber(fetcher, nil).Probe(context.Background(), "  ")
	require.NoError(t, err)
	require.Empty(t, emails)
	require.Empty(t, fetcher.calls, "no fetch for empty website")
}

func TestProbePrimaryHitSkipsFallbacks(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://biz.example": "mail us: hi@biz.example",
	}}
	p := newTestProber(fetcher, []string{"/contact"})

	emails, err := p.Probe(context.Background(), "https://biz.example")
	require.NoError(t, err)
	require.Equal(t, []string{"hi@biz.example"}, emails)
	require.Equal(t, []string{"https://biz.example"}, fetcher.calls)
}

func TestProbeFirstFallbackHitShortCircuits(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://biz.example":          "<html>nothing here</html>",
		"https://biz.example/iletisim": "a@b.com",
		"https://biz.example/contact":  "never@reached.example",
	}}
	p := newTestProber(fetcher, []string{"/iletisim", "/contact"})

	emails, err := p.Probe(context.Background(), "https://biz.example")
	require.NoError(t, err)
	require.Equal(t, []string{"a@b.com"}, emails)
	require.Equal(t,
		[]string{"https://biz.example", "https://biz.example/iletisim"},
		fetcher.calls,
		"second fallback candidate must never be attempted",
	)
}

func TestProbeFallbackFetchFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		bodies: map[string]string{
			"https://biz.example":         "<html>nothing</html>",
			"https://biz.example/contact": "found@biz.example",
		},
		errs: map[string]error{
			"https://biz.example/iletisim": errors.New("404 not found"),
		},
	}
	p := newTestProber(fetcher, []string{"/iletisim", "/contact"})

	emails, err := p.Probe(context.Background(), "https://biz.example")
	require.NoError(t, err)
	require.Equal(t, []string{"found@biz.example"}, emails)
}

func TestProbeAllStagesEmptyReturnsNothing(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://biz.example":         "no mail",
		"https://biz.example/contact": "still no mail",
	}}
	p := newTestProber(fetcher, []string{"/contact"})

	emails, err := p.Probe(context.Background(), "https://biz.example")
	require.NoError(t, err)
	require.Empty(t, emails)
}

func TestProbePrimaryNetworkFailureIsWarningNotError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{errs: map[string]error{
		"https://gone.example": errors.New("dial tcp: lookup gone.example: ERR_NAME_NOT_RESOLVED"),
	}}
	p := newTestProber(fetcher, []string{"/contact"})

	emails, err := p.Probe(context.Background(), "https://gone.example")
	require.NoError(t, err, "network failures never abort the job")
	require.Empty(t, emails)
	require.Len(t, fetcher.calls, 1, "unreachable site skips fallback probing")
}

func TestProbeTrailingSlashNormalized(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://biz.example/":        "no mail",
		"https://biz.example/contact": "x@biz.example",
	}}
	p := newTestProber(fetcher, []string{"/contact"})

	emails, err := p.Probe(context.Background(), "https://biz.example/")
	require.NoError(t, err)
	require.Equal(t, []string{"x@biz.example"}, emails)
}

func TestProbeHonorsPauseGate(t *testing.T) {
	t.Parallel()

	gate := NewGate()
	gate.Pause()
	fetcher := &fakeFetcher{bodies: map[string]string{"https://biz.example": "hi@biz.example"}}
	p := NewProber(ProberConfig{PrimaryTimeout: time.Second, FallbackTimeout: time.Second},
		fetcher, nil, gate, nil, nil)

	done := make(chan struct{})
	go func() {
		_, _ = p.Probe(context.Background(), "https://biz.example")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("probe advanced while paused")
	case <-time.After(50 * time.Millisecond):
	}

	gate.Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("probe not released by resume")
	}
}
