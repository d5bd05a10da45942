package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, rpc.CommitmentConfirmed, cfg.CommitmentType())
	assert.Equal(t, DefaultAggregatorURL, cfg.AggregatorURL)
	assert.Equal(t, 5*time.Second, cfg.QuoteTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.QuoteDebounce())
	assert.Equal(t, 3*time.Second, cfg.RefreshDelay())
	assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout())
	assert.InDelta(t, 0.5, cfg.DefaultSlippage, 1e-9)
	assert.Zero(t, cfg.PriorityFeeMicroLamports)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, "launchpad.json", `{
		"rpc_url": "http://127.0.0.1:8899",
		"default_slippage": 1.5,
		"quote_debounce_ms": 250,
		"compute_unit_limit": 200000,
		"log_file": "logs/launchpad.log"
	}`)
	t.Setenv("LAUNCHPAD_PRIORITY_FEE_MICRO_LAMPORTS", "5000")
	t.Setenv("LAUNCHPAD_COMMITMENT", "finalized")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8899", cfg.RPCURL)
	assert.InDelta(t, 1.5, cfg.DefaultSlippage, 1e-9)
	assert.Equal(t, 250*time.Millisecond, cfg.QuoteDebounce())
	assert.Equal(t, uint32(200000), cfg.ComputeUnitLimit)
	assert.Equal(t, uint64(5000), cfg.PriorityFeeMicroLamports)
	assert.Equal(t, rpc.CommitmentFinalized, cfg.CommitmentType())
	assert.Equal(t, "logs/launchpad.log", cfg.LogFile)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ws rpc", `{"rpc_url": "wss://api.devnet.solana.com"}`},
		{"slippage too low", `{"default_slippage": 0.05}`},
		{"slippage too high", `{"default_slippage": 51}`},
		{"zero timeout", `{"quote_timeout_ms": 0}`},
		{"bad commitment", `{"commitment": "max"}`},
		{"zero rps", `{"aggregator_rps": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "c.json", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMaskedRPCURL(t *testing.T) {
	cfg := &Config{RPCURL: "https://devnet.helius-rpc.com/?api-key=secret"}
	assert.NotContains(t, cfg.MaskedRPCURL(), "secret")

	cfg.RPCURL = DefaultRPCURL
	assert.Equal(t, DefaultRPCURL, cfg.MaskedRPCURL())
}
