// Package csvsource acquires the escapement dataset, preferring a local file
// and falling back to a single remote fetch. It implements pipeline.Extractor.
package csvsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/escapement-etl/internal/config"
	"github.com/couchcryptid/escapement-etl/internal/domain"
	"github.com/couchcryptid/escapement-etl/internal/observability"
)

// Source reads the dataset from DataPath, or fetches DataURL when the local
// read fails. There is no retry beyond that one fallback and no write-back
// caching of the fetched content.
type Source struct {
	path       string
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Source from the service configuration.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Source {
	return &Source{
		path: cfg.DataPath,
		url:  cfg.DataURL,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Extract returns the full observation snapshot for this run.
// A local file that opens but fails to parse is malformed input, not a
// trigger for the remote fallback.
func (s *Source) Extract(ctx context.Context) ([]domain.Observation, error) {
	if s.path != "" {
		f, err := os.Open(s.path)
		if err == nil {
			defer f.Close()
			s.logger.Info("reading local dataset", "path", s.path)
			s.metrics.ExtractSource.WithLabelValues("local").Inc()
			return domain.ParseObservations(f)
		}
		s.logger.Warn("local dataset unavailable, falling back to remote",
			"path", s.path, "error", err)
	}

	if s.url == "" {
		return nil, fmt.Errorf("%w: no local file and no remote URL configured", domain.ErrDataSourceUnavailable)
	}

	body, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataSourceUnavailable, err)
	}
	defer body.Close()

	s.metrics.ExtractSource.WithLabelValues("remote").Inc()
	return domain.ParseObservations(body)
}

func (s *Source) fetch(ctx context.Context) (io.ReadCloser, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch dataset: status %d: %s", resp.StatusCode, body)
	}

	s.logger.Info("fetched remote dataset", "url", s.url,
		"duration", time.Since(start).Round(time.Millisecond))
	return resp.Body, nil
}
