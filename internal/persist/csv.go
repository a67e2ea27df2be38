// Package persist writes finished result sets to their destinations: a
// dated CSV folder on disk and, optionally, a Postgres table.
package persist

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/scrape"
)

// CSV saves records as one CSV file per run under baseDir/<yyyy-mm-dd>/.
type CSV struct {
	baseDir string
	now     func() time.Time
	logger  *zap.Logger
}

// NewCSV builds a CSV saver rooted at baseDir.
func NewCSV(baseDir string, logger *zap.Logger) *CSV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSV{baseDir: baseDir, now: time.Now, logger: logger}
}

// Save writes records to a dated folder and returns the file path. Empty
// input is a no-op returning an empty path.
func (s *CSV) Save(_ context.Context, records []*scrape.Record, nameHint string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	dir := filepath.Join(s.baseDir, s.now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, nameHint+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"name", "address", "phone_number", "website", "emails", "query", "latitude", "longitude"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.DisplayName,
			r.Address,
			r.PhoneNumber,
			r.WebsiteURL,
			strings.Join(r.EmailAddresses, "; "),
			r.OriginQuery,
			formatCoord(r.Latitude),
			formatCoord(r.Longitude),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("records saved", zap.String("path", path), zap.Int("count", len(records)))
	return path, nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
