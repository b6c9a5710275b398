package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "mean_co2_ppm.csv", cfg.CO2File)
	assert.Equal(t, "ghg_EDGAR_country.csv", cfg.EmissionsFile)
	assert.Equal(t, "sea_level.csv", cfg.SeaLevelFile)
	assert.Equal(t, "coastline_lengths.csv", cfg.CoastlineFile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15, cfg.TopN)
	assert.Equal(t, DefaultWorldAtlasURL, cfg.WorldAtlasURL)
	assert.Empty(t, cfg.SnapshotDir)
	assert.Equal(t, 512, cfg.ResolverCacheSize)
	assert.Equal(t, 2, cfg.ResolverMaxDistance)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "ghg-emissions", cfg.KafkaTopic)
	assert.Equal(t, 50, cfg.BatchSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/climate")
	t.Setenv("CO2_FILE", "co2.csv")
	t.Setenv("EMISSIONS_FILE", "ghg.csv")
	t.Setenv("SEA_LEVEL_FILE", "gmsl.csv")
	t.Setenv("COASTLINE_FILE", "coasts.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TOP_N", "10")
	t.Setenv("WORLD_ATLAS_URL", "http://localhost/world.json")
	t.Setenv("SNAPSHOT_DIR", "/tmp/snapshots")
	t.Setenv("RESOLVER_CACHE_SIZE", "64")
	t.Setenv("RESOLVER_MAX_DISTANCE", "0")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "emissions-long")
	t.Setenv("BATCH_SIZE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/climate", cfg.DataDir)
	assert.Equal(t, "co2.csv", cfg.CO2File)
	assert.Equal(t, "ghg.csv", cfg.EmissionsFile)
	assert.Equal(t, "gmsl.csv", cfg.SeaLevelFile)
	assert.Equal(t, "coasts.csv", cfg.CoastlineFile)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "http://localhost/world.json", cfg.WorldAtlasURL)
	assert.Equal(t, "/tmp/snapshots", cfg.SnapshotDir)
	assert.Equal(t, 64, cfg.ResolverCacheSize)
	assert.Equal(t, 0, cfg.ResolverMaxDistance)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "emissions-long", cfg.KafkaTopic)
	assert.Equal(t, 100, cfg.BatchSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidTopN(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("TOP_N", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TOP_N")
		})
	}
}

func TestLoad_InvalidMaxDistance(t *testing.T) {
	t.Setenv("RESOLVER_MAX_DISTANCE", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOLVER_MAX_DISTANCE")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_BadCacheSizeFallsBack(t *testing.T) {
	t.Setenv("RESOLVER_CACHE_SIZE", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.ResolverCacheSize)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestConfig_Path(t *testing.T) {
	cfg := &Config{DataDir: "data"}
	assert.Equal(t, filepath.Join("data", "co2.csv"), cfg.Path("co2.csv"))

	abs := filepath.Join(t.TempDir(), "co2.csv")
	assert.Equal(t, abs, cfg.Path(abs))
}
