//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/escapement-etl/internal/adapter/kafka"
	"github.com/couchcryptid/escapement-etl/internal/config"
	"github.com/couchcryptid/escapement-etl/internal/domain"
	"github.com/couchcryptid/escapement-etl/internal/observability"
	"github.com/couchcryptid/escapement-etl/internal/pipeline"
)

const (
	testSummaryTopic   = "test-escapement-summaries"
	testLocationsTopic = "test-escapement-locations"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-broker Kafka container and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("escapement-etl-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func newConsumer(t *testing.T, broker, topic string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%s-%d", topic, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func readMessage(ctx context.Context, t *testing.T, consumer *kafkago.Reader) kafkago.Message {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")
	return msg
}

// TestKafkaWriterPublishesDerivedTables verifies that kafka.Writer delivers a
// transformed run to both sink topics with the expected keys and headers.
func TestKafkaWriterPublishesDerivedTables(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)
	createTopic(t, broker, testLocationsTopic)

	cfg := &config.Config{
		KafkaBrokers:        []string{broker},
		KafkaSummaryTopic:   testSummaryTopic,
		KafkaLocationsTopic: testLocationsTopic,
	}

	// Derive a result through the real transformer.
	day := func(year int) time.Time { return time.Date(year, 7, 1, 0, 0, 0, 0, time.UTC) }
	observations := []domain.Observation{
		{Species: "sockeye", Region: "Bristol Bay", Location: "Kvichak River",
			SampleDate: day(2010), Count: 10, Coord: &domain.Coordinate{Lat: 59.05, Lon: 156.85}},
		{Species: "sockeye", Region: "Bristol Bay", Location: "Kvichak River",
			SampleDate: day(2010), Count: 5, Coord: &domain.Coordinate{Lat: 59.05, Lon: 156.85}},
		{Species: "sockeye", Region: "Bristol Bay", Location: "Wood River",
			SampleDate: day(2011), Count: 20, Coord: &domain.Coordinate{Lat: 59.5, Lon: -158.5}},
	}

	transformer := pipeline.NewTransformer(nil, discardLogger(), observability.NewMetricsForTesting())
	result, err := transformer.Transform(ctx, observations)
	require.NoError(t, err)

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Load(ctx, result))

	// Summary topic: one row for sockeye with median of [15, 20].
	summaryMsg := readMessage(ctx, t, newConsumer(t, broker, testSummaryTopic))
	assert.Equal(t, []byte("sockeye"), summaryMsg.Key)

	var row domain.SummaryRow
	require.NoError(t, json.Unmarshal(summaryMsg.Value, &row))
	assert.Equal(t, 17.5, row.MedianEscapement)
	assert.Equal(t, 2, row.Groups)

	headers := map[string]string{}
	for _, h := range summaryMsg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "summary", headers["table"])
	_, err = time.Parse(time.RFC3339, headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	// Locations topic: both sites, longitudes corrected to negative.
	locConsumer := newConsumer(t, broker, testLocationsTopic)
	points := map[string]domain.LocationPoint{}
	for range 2 {
		msg := readMessage(ctx, t, locConsumer)
		var p domain.LocationPoint
		require.NoError(t, json.Unmarshal(msg.Value, &p))
		points[p.Location] = p
	}

	require.Contains(t, points, "Kvichak River")
	require.Contains(t, points, "Wood River")
	assert.Equal(t, -156.85, points["Kvichak River"].Lon)
	assert.Equal(t, -158.5, points["Wood River"].Lon)
}
