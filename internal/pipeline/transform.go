package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/escapement-etl/internal/domain"
	"github.com/couchcryptid/escapement-etl/internal/observability"
)

// EscapementTransformer implements Transformer using the domain transform
// functions, with optional gazetteer coordinate enrichment.
type EscapementTransformer struct {
	gazetteer domain.Gazetteer
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewTransformer creates an EscapementTransformer. Pass a nil gazetteer to
// disable coordinate lookup enrichment.
func NewTransformer(gazetteer domain.Gazetteer, logger *slog.Logger, metrics *observability.Metrics) *EscapementTransformer {
	return &EscapementTransformer{
		gazetteer: gazetteer,
		logger:    logger,
		metrics:   metrics,
	}
}

// Transform derives both output tables from one snapshot: the per-species
// median escapement summary, and the sanitized distinct-location table.
func (t *EscapementTransformer) Transform(_ context.Context, observations []domain.Observation) (domain.RunResult, error) {
	missingBefore := countMissingCoords(observations)
	observations = domain.FillCoordinates(observations, t.gazetteer, t.logger)
	missingAfter := countMissingCoords(observations)
	t.metrics.CoordinatesFilled.Add(float64(missingBefore - missingAfter))
	t.metrics.RowsWithoutCoords.Add(float64(missingAfter))

	points := domain.DistinctLocations(observations)
	t.metrics.LongitudesCorrected.Add(float64(countFlippedLongitudes(points)))
	points = domain.SanitizeLongitudes(points)

	return domain.RunResult{
		Summary:     domain.SummarizeEscapement(observations),
		Locations:   points,
		RecordCount: len(observations),
		GeneratedAt: domain.Now(),
	}, nil
}

func countMissingCoords(observations []domain.Observation) int {
	n := 0
	for _, obs := range observations {
		if obs.Coord == nil {
			n++
		}
	}
	return n
}

func countFlippedLongitudes(points []domain.LocationPoint) int {
	n := 0
	for _, p := range points {
		if p.Lon > 0 {
			n++
		}
	}
	return n
}
