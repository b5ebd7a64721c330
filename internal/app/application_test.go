package app

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/journal"
)

func TestNewApplicationDryRunNeedsNoBackends(t *testing.T) {
	cfg := &config.AppConfig{Breez: config.BreezConfig{ApiURL: "http://127.0.0.1:1"}}
	cfg.Sync.ApplyDefaults()
	cfg.Breez.Rate.ApplyDefaults()

	application, err := NewApplication(cfg, true, io.Discard)
	require.NoError(t, err)
	defer application.Close()

	assert.NotNil(t, application.Runner)
	assert.IsType(t, journal.Nop{}, application.Journal)

	_, err = application.NewServer()
	assert.Error(t, err, "serving without a jwt secret must fail")
}

func TestNewApplicationRequiresStore(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Sync.ApplyDefaults()

	_, err := NewApplication(cfg, false, io.Discard)
	assert.Error(t, err)
}
