// Package filesink writes a run's derived tables as CSV artifacts for the
// downstream chart, table, and map renderers. It implements pipeline.Loader.
package filesink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/escapement-etl/internal/config"
	"github.com/couchcryptid/escapement-etl/internal/domain"
)

// Sink writes the summary and location tables to the configured paths.
// Writes are atomic: content goes to a temp file which is renamed over the
// target, so consumers never observe a half-written artifact.
type Sink struct {
	summaryPath   string
	locationsPath string
	logger        *slog.Logger
}

// New creates a Sink from the service configuration.
func New(cfg *config.Config, logger *slog.Logger) *Sink {
	return &Sink{
		summaryPath:   cfg.SummaryPath,
		locationsPath: cfg.LocationsPath,
		logger:        logger,
	}
}

// Load writes both artifacts. The summary is written first; a failure on
// either file fails the run.
func (s *Sink) Load(_ context.Context, result domain.RunResult) error {
	if err := writeCSV(s.summaryPath, summaryHeader, summaryRecords(result.Summary)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	s.logger.Info("summary artifact written", "path", s.summaryPath, "rows", len(result.Summary))

	if err := writeCSV(s.locationsPath, locationsHeader, locationRecords(result.Locations)); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	s.logger.Info("locations artifact written", "path", s.locationsPath, "rows", len(result.Locations))
	return nil
}

var (
	summaryHeader   = []string{"species", "median_escapement", "groups"}
	locationsHeader = []string{"location", "latitude", "longitude"}
)

func summaryRecords(rows []domain.SummaryRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{
			row.Species,
			strconv.FormatFloat(row.MedianEscapement, 'f', -1, 64),
			strconv.Itoa(row.Groups),
		}
	}
	return records
}

func locationRecords(points []domain.LocationPoint) [][]string {
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{
			p.Location,
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
		}
	}
	return records
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
