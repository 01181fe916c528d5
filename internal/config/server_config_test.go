package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/frak-labs/go-smart-wallet/internal/config"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestServiceConfigFromEnv(t *testing.T) {
	t.Setenv("CHAIN_RPC_URLS", "https://rpc-a.example, https://rpc-b.example")
	t.Setenv("RIP7212_CHAIN_IDS", "8453,137")
	t.Setenv("PAIRING_PING_INTERVAL", "2s")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, []string{"https://rpc-a.example", "https://rpc-b.example"}, cfg.Chain.RPCURLs)
	assert.Equal(t, []uint64{8453, 137}, cfg.Registry.RIP7212ChainIDs)
	assert.Equal(t, 2*time.Second, cfg.Pairing.PingInterval)
	assert.Equal(t, 5, cfg.Pairing.MaxMissedPongs)
	require.NoError(t, cfg.Validate())
}

func TestServiceConfigValidate(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Registry.FactoryAddress = "not-an-address"
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultServiceConfigFromEnv()
	cfg.Chain.RPCURLs = nil
	assert.Error(t, cfg.Validate())
}
