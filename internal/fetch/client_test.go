package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBody(t *testing.T) {
	t.Parallel()

	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.UserAgent())
		_, _ = w.Write([]byte("<html>contact: info@biz.example</html>"))
	}))
	defer srv.Close()

	c := New(Config{UserAgent: "lead-harvester-test", IgnoreRobots: true}, nil)
	body, err := c.Fetch(context.Background(), srv.URL, 2*time.Second)
	require.NoError(t, err)
	require.Contains(t, body, "info@biz.example")
	require.Equal(t, "lead-harvester-test", gotUA.Load())
}

func TestFetchSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{IgnoreRobots: true}, nil)
	_, err := c.Fetch(context.Background(), srv.URL, 2*time.Second)
	require.Error(t, err)
}

func TestFetchRespectsContext(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	c := New(Config{IgnoreRobots: true}, nil)
	_, err := c.Fetch(ctx, srv.URL, 10*time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchConcurrentUse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{IgnoreRobots: true}, nil)
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := c.Fetch(context.Background(), srv.URL, 2*time.Second)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}
}
