package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapleads/lead-harvester/internal/scrape"
	"github.com/mapleads/lead-harvester/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *scrape.Gate, *scrape.Collector, *status.Hub) {
	t.Helper()
	gate := scrape.NewGate()
	collector := scrape.NewCollector()
	hub := status.NewHub(8)
	srv := httptest.NewServer(NewServer(gate, hub, collector, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, gate, collector, hub
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestPauseAndResumeToggleGate(t *testing.T) {
	t.Parallel()

	srv, gate, _, hub := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/pause", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, gate.Paused())

	resp, err = http.Post(srv.URL+"/v1/resume", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, gate.Paused())

	require.Equal(t, []string{"Run paused.", "Run resumed."}, hub.Recent())
}

func TestStatusSnapshot(t *testing.T) {
	t.Parallel()

	srv, gate, collector, hub := newTestServer(t)
	gate.Pause()
	collector.Add(&scrape.Record{DisplayName: "Kafe Bir"})
	collector.Add(&scrape.Record{DisplayName: "Kafe Iki"})
	hub.Report("Searching for \"cafes\"...")

	resp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Paused  bool     `json:"paused"`
		Records int      `json:"records"`
		Recent  []string `json:"recent"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Paused)
	require.Equal(t, 2, body.Records)
	require.Equal(t, []string{"Searching for \"cafes\"..."}, body.Recent)
}

func TestMetricsEndpointServes(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownMethodRejected(t *testing.T) {
	t.Parallel()

	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/pause")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
