package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Default remote source: the SASAP daily escapement counts CSV on KNB.
const defaultDataURL = "https://knb.ecoinformatics.org/knb/d1/mn/v2/object/urn%3Auuid%3Af119a05b-bbe7-4aea-93c6-85434dcb1c5e"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath     string
	DataURL      string
	FetchTimeout time.Duration

	SummaryPath   string
	LocationsPath string

	GazetteerPath string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka sink configuration.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaSummaryTopic   string
	KafkaLocationsTopic string

	// Run archive configuration.
	ArchiveEnabled bool
	ArchivePath    string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:     envOrDefault("DATA_PATH", "data/escapement.csv"),
		DataURL:      envOrDefault("DATA_URL", defaultDataURL),
		FetchTimeout: fetchTimeout,

		SummaryPath:   envOrDefault("SUMMARY_PATH", "out/escapement_summary.csv"),
		LocationsPath: envOrDefault("LOCATIONS_PATH", "out/location_points.csv"),

		GazetteerPath: os.Getenv("GAZETTEER_PATH"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:        os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:        parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSummaryTopic:   envOrDefault("KAFKA_SUMMARY_TOPIC", "escapement-summaries"),
		KafkaLocationsTopic: envOrDefault("KAFKA_LOCATIONS_TOPIC", "escapement-locations"),

		ArchiveEnabled: os.Getenv("ARCHIVE_ENABLED") == "true",
		ArchivePath:    envOrDefault("ARCHIVE_PATH", "data/escapement_runs.db"),
	}

	if cfg.DataPath == "" && cfg.DataURL == "" {
		return nil, errors.New("at least one of DATA_PATH and DATA_URL is required")
	}
	if cfg.SummaryPath == "" || cfg.LocationsPath == "" {
		return nil, errors.New("SUMMARY_PATH and LOCATIONS_PATH are required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSummaryTopic == "" || cfg.KafkaLocationsTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but a sink topic is empty")
		}
	}
	if cfg.ArchiveEnabled && cfg.ArchivePath == "" {
		return nil, errors.New("ARCHIVE_ENABLED is true but ARCHIVE_PATH is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
