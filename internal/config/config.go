package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all report settings, populated from environment variables.
type Config struct {
	DataDir       string
	CO2File       string
	EmissionsFile string
	SeaLevelFile  string
	CoastlineFile string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	TopN          int
	WorldAtlasURL string
	SnapshotDir   string

	// Country resolution.
	ResolverCacheSize   int
	ResolverMaxDistance int

	// Optional Kafka sink for long-form emission records.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	BatchSize    int
}

// DefaultWorldAtlasURL is the world-110m TopoJSON used by the coastline maps.
const DefaultWorldAtlasURL = "https://cdn.jsdelivr.net/npm/vega-datasets@v1.29.0/data/world-110m.json"

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	topN, err := parsePositiveInt("TOP_N", 15)
	if err != nil {
		return nil, err
	}

	maxDistance, err := parseNonNegativeInt("RESOLVER_MAX_DISTANCE", 2)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:       sharedcfg.EnvOrDefault("DATA_DIR", "./data"),
		CO2File:       sharedcfg.EnvOrDefault("CO2_FILE", "mean_co2_ppm.csv"),
		EmissionsFile: sharedcfg.EnvOrDefault("EMISSIONS_FILE", "ghg_EDGAR_country.csv"),
		SeaLevelFile:  sharedcfg.EnvOrDefault("SEA_LEVEL_FILE", "sea_level.csv"),
		CoastlineFile: sharedcfg.EnvOrDefault("COASTLINE_FILE", "coastline_lengths.csv"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		TopN:          topN,
		WorldAtlasURL: sharedcfg.EnvOrDefault("WORLD_ATLAS_URL", DefaultWorldAtlasURL),
		SnapshotDir:   os.Getenv("SNAPSHOT_DIR"),

		ResolverCacheSize:   parseCacheSize(),
		ResolverMaxDistance: maxDistance,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "ghg-emissions"),
		BatchSize:    batchSize,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("LOG_FORMAT must be json or text")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

// Path joins a data file name onto DataDir. Absolute names are returned as is.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("RESOLVER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 512
}
