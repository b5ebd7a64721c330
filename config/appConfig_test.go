package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpbreez_sync/config/values"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	t.Setenv("WC_CONSUMER_KEY", "ck_env")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("SYNC_PAGE_SIZE", "")
	t.Setenv("LOG_LEVEL", "")

	path := writeConfig(t, `
breez:
  api_url: https://feed.example/v1/
  login: shop
woocommerce:
  store_url: https://shop.example/
  consumer_key: ck_file
  media_transport: xmlrpc
sync:
  page-size: 50
  brand-root-label: Brand
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://feed.example/v1", cfg.Breez.ApiURL)
	assert.Equal(t, "shop", cfg.Breez.Login)
	assert.Equal(t, "https://shop.example", cfg.WooCommerce.StoreURL)
	assert.Equal(t, "ck_env", cfg.WooCommerce.ConsumerKey, "env overrides the file")
	assert.Equal(t, MediaTransportXMLRPC, cfg.WooCommerce.MediaTransport)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, "Brand", cfg.Sync.BrandRootLabel)
	assert.Equal(t, values.DefaultBrandRootSlug, cfg.Sync.BrandRootSlug)
	assert.Equal(t, values.DefaultUploadDir, cfg.Sync.UploadDir)
	assert.Equal(t, float64(values.DefaultRPS), cfg.WooCommerce.Rate.RequestsPerSecond)
	assert.False(t, cfg.Postgres.Enabled())
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	t.Setenv("BREEZ_API_URL", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SYNC_PAGE_SIZE", "120")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.breez.ru/v1", cfg.Breez.ApiURL)
	assert.Equal(t, MediaTransportREST, cfg.WooCommerce.MediaTransport)
	assert.Equal(t, "breez-sync-events", cfg.Kafka.Topic)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, 120, cfg.Sync.PageSize)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "breez: ["))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "woocommerce:\n  media_transport: ftp\n"))
	assert.ErrorContains(t, err, "media_transport")
}

func TestPostgresConnectionString(t *testing.T) {
	pc := &PostgresConfig{Host: "db", Port: "5432", User: "sync", Password: "pw", DBName: "breez"}

	assert.True(t, pc.Enabled())
	assert.Equal(t, "host=db port=5432 user=sync password=pw dbname=breez sslmode=disable", pc.GetConnectionString())
}
