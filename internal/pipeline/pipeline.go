package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/escapement-etl/internal/domain"
	"github.com/couchcryptid/escapement-etl/internal/observability"
)

// Extractor produces the full observation snapshot for a run.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Observation, error)
}

// Transformer derives the summary and location tables from a snapshot.
type Transformer interface {
	Transform(ctx context.Context, observations []domain.Observation) (domain.RunResult, error)
}

// Loader delivers a run's derived outputs to one destination.
type Loader interface {
	Load(ctx context.Context, result domain.RunResult) error
}

// Pipeline orchestrates one extract-transform-load pass over an immutable
// snapshot of the dataset. There is no retry or partial-result semantic:
// the run either completes fully or fails entirely.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	done        atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.done.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes a single batch pass. It returns the first error encountered;
// on any failure no outputs are considered delivered.
func (p *Pipeline) Run(ctx context.Context) (domain.RunResult, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	observations, err := p.extractor.Extract(ctx)
	if err != nil {
		p.metrics.RunErrors.Inc()
		return domain.RunResult{}, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RecordsExtracted.Add(float64(len(observations)))
	p.logger.Info("snapshot extracted", "records", len(observations))

	result, err := p.transformer.Transform(ctx, observations)
	if err != nil {
		p.metrics.RunErrors.Inc()
		return domain.RunResult{}, fmt.Errorf("transform: %w", err)
	}
	p.metrics.SpeciesSummarized.Set(float64(len(result.Summary)))
	p.metrics.LocationsEmitted.Set(float64(len(result.Locations)))
	p.logger.Info("snapshot transformed",
		"species", len(result.Summary),
		"locations", len(result.Locations),
	)

	for _, loader := range p.loaders {
		if err := loader.Load(ctx, result); err != nil {
			p.metrics.RunErrors.Inc()
			return domain.RunResult{}, fmt.Errorf("load: %w", err)
		}
	}

	p.metrics.RunsCompleted.Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.done.Store(true)
	p.logger.Info("run complete", "duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}
