// Package kafka publishes a run's derived rows to the sink topics consumed
// by the downstream rendering services. It implements pipeline.Loader.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/escapement-etl/internal/config"
	"github.com/couchcryptid/escapement-etl/internal/domain"
)

// Writer produces summary rows and location points to their Kafka topics.
type Writer struct {
	summaryWriter   *kafkago.Writer
	locationsWriter *kafkago.Writer
	logger          *slog.Logger
}

// NewWriter creates a Kafka producer pair for the configured sink topics.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	newTopicWriter := func(topic string) *kafkago.Writer {
		return &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.KafkaBrokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
		}
	}
	return &Writer{
		summaryWriter:   newTopicWriter(cfg.KafkaSummaryTopic),
		locationsWriter: newTopicWriter(cfg.KafkaLocationsTopic),
		logger:          logger,
	}
}

// Load serializes and publishes every summary row and location point, each
// table in a single WriteMessages call for efficiency.
func (w *Writer) Load(ctx context.Context, result domain.RunResult) error {
	summaryMsgs := make([]kafkago.Message, len(result.Summary))
	for i, row := range result.Summary {
		msg, err := serializeSummaryRow(row, result.GeneratedAt)
		if err != nil {
			return err
		}
		summaryMsgs[i] = msg
	}

	locationMsgs := make([]kafkago.Message, len(result.Locations))
	for i, point := range result.Locations {
		msg, err := serializeLocationPoint(point, result.GeneratedAt)
		if err != nil {
			return err
		}
		locationMsgs[i] = msg
	}

	if len(summaryMsgs) > 0 {
		if err := w.summaryWriter.WriteMessages(ctx, summaryMsgs...); err != nil {
			return fmt.Errorf("publish summary rows: %w", err)
		}
	}
	if len(locationMsgs) > 0 {
		if err := w.locationsWriter.WriteMessages(ctx, locationMsgs...); err != nil {
			return fmt.Errorf("publish location points: %w", err)
		}
	}

	w.logger.Info("published derived tables",
		"summary_rows", len(summaryMsgs),
		"location_points", len(locationMsgs),
	)
	return nil
}

func (w *Writer) Close() error {
	if err := w.summaryWriter.Close(); err != nil {
		return err
	}
	return w.locationsWriter.Close()
}

// serializeSummaryRow marshals a SummaryRow into a Kafka message keyed by species.
func serializeSummaryRow(row domain.SummaryRow, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.Species),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "table", Value: []byte("summary")},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}

// serializeLocationPoint marshals a LocationPoint into a Kafka message keyed by location.
func serializeLocationPoint(point domain.LocationPoint, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(point)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize location point: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(point.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "table", Value: []byte("locations")},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
