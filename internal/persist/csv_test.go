package persist

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mapleads/lead-harvester/internal/scrape"
)

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	ts, err := time.Parse(time.DateOnly, "2026-08-23")
	require.NoError(t, err)
	return func() time.Time { return ts }
}

func TestCSVSaveWritesDatedFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s := NewCSV(base, nil)
	s.now = fixedClock(t)

	lat, lon := 39.92, 32.85
	records := []*scrape.Record{
		{
			DisplayName:    "Kahve Durağı",
			Address:        "Atatürk Cad. 12",
			PhoneNumber:    "+90 312 000 0000",
			WebsiteURL:     "https://www.kahve.example",
			OriginQuery:    "cafes ankara",
			Latitude:       &lat,
			Longitude:      &lon,
			EmailAddresses: []string{"info@kahve.example", "sales@kahve.example"},
		},
		{DisplayName: "No Details Cafe", OriginQuery: "cafes ankara"},
	}

	path, err := s.Save(context.Background(), records, "cafes_ankara")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "2026-08-23", "cafes_ankara.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t,
		[]string{"name", "address", "phone_number", "website", "emails", "query", "latitude", "longitude"},
		rows[0])
	require.Equal(t, []string{
		"Kahve Durağı",
		"Atatürk Cad. 12",
		"+90 312 000 0000",
		"https://www.kahve.example",
		"info@kahve.example; sales@kahve.example",
		"cafes ankara",
		"39.92",
		"32.85",
	}, rows[1])
	require.Equal(t, []string{"No Details Cafe", "", "", "", "", "cafes ankara", "", ""}, rows[2])
}

func TestCSVSaveEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s := NewCSV(base, nil)

	path, err := s.Save(context.Background(), nil, "whatever")
	require.NoError(t, err)
	require.Empty(t, path)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Empty(t, entries, "no dated folder for an empty run")
}

func TestCSVSaveReusesDatedFolder(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s := NewCSV(base, nil)
	s.now = fixedClock(t)

	records := []*scrape.Record{{DisplayName: "A"}}
	_, err := s.Save(context.Background(), records, "first")
	require.NoError(t, err)
	_, err = s.Save(context.Background(), records, "second")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(base, "2026-08-23"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
