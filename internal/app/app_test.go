package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/mock"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
)

func writeKeypair(t *testing.T, dir string) (string, solana.PublicKey) {
	t.Helper()
	w := solana.NewWallet()
	ints := make([]int, len(w.PrivateKey))
	for i, b := range w.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)
	path := filepath.Join(dir, "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, w.PublicKey()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.AggregatorURL = ""
	cfg.PollIntervalMS = 10
	return cfg
}

func TestAppAirdropEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	var owner solana.PublicKey
	cfg.KeypairPath, owner = writeKeypair(t, dir)
	cfg.HistoryFile = filepath.Join(dir, "history.csv")

	var states []operation.State
	ledger := mock.NewLedger()
	a, err := New(cfg, Options{
		Client:   ledger,
		Observer: func(e operation.Event) { states = append(states, e.State) },
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Nil(t, a.Aggregator)

	ctx := context.Background()
	require.NoError(t, a.Connect(ctx))
	assert.Equal(t, owner, a.Session.Identity())

	out, err := a.Orchestrator.Airdrop(ctx, a.Session, "1")
	require.NoError(t, err)
	assert.Equal(t, operation.StatusSuccess, out.Status, out.Message)
	assert.Equal(t, "Airdropped 1 SOL successfully.", out.Message)
	assert.Contains(t, out.ExplorerURL, "cluster=devnet")
	assert.Equal(t, operation.StateSucceeded, states[len(states)-1])
	a.Record(out)

	require.NoError(t, a.Close(ctx))

	data, err := os.ReadFile(cfg.HistoryFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], owner.String())
	assert.Contains(t, lines[1], "airdrop")
}

func TestAppConnectRequiresKeypair(t *testing.T) {
	a, err := New(testConfig(t), Options{Client: mock.NewLedger()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.Error(t, a.Connect(context.Background()))
	_, ok := a.Session.Signer()
	assert.False(t, ok)
}

func TestAppConnectDropsBalancesOfPreviousIdentity(t *testing.T) {
	cfg := testConfig(t)
	first, firstKey := writeKeypair(t, t.TempDir())
	cfg.KeypairPath = first

	a, err := New(cfg, Options{Client: mock.NewLedger()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close(context.Background())
	ctx := context.Background()

	require.NoError(t, a.Connect(ctx))
	a.Store.Replace(balance.Snapshot{Owner: firstKey})

	// same keypair again keeps what is known
	require.NoError(t, a.Connect(ctx))
	_, ok := a.Store.Snapshot()
	assert.True(t, ok)

	second, secondKey := writeKeypair(t, t.TempDir())
	cfg.KeypairPath = second
	require.NoError(t, a.Connect(ctx))
	assert.Equal(t, secondKey, a.Session.Identity())
	_, ok = a.Store.Snapshot()
	assert.False(t, ok)
}

func TestAppUsesAggregatorWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.AggregatorURL = "http://127.0.0.1:1"

	a, err := New(cfg, Options{Client: mock.NewLedger()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close(context.Background())

	require.NotNil(t, a.Aggregator)

	usdc, ok := a.Registry.BySymbol("USDC")
	require.True(t, ok)
	sol, ok := a.Registry.BySymbol("SOL")
	require.True(t, ok)

	// unreachable aggregator falls back to the rate table
	q, err := a.Quotes.GetQuote(context.Background(), sol, usdc, "1", 50)
	require.NoError(t, err)
	assert.False(t, q.IsRemote())
	assert.Equal(t, uint64(150_000_000), q.OutAmount)
}
