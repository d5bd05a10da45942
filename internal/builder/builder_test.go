package builder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/mock"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/programs/computebudget"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/programs/token2022"
)

func TestAirdropLamports(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1", 1_000_000_000, false},
		{"0.5", 500_000_000, false},
		{" 2 ", 2_000_000_000, false},
		{"", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"0.0000000001", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := AirdropLamports(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAirdropAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLaunch(t *testing.T) {
	p, err := ValidateLaunch(LaunchRequest{Name: "Test", Symbol: "TST"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSupply, p.Supply)
	assert.Equal(t, "TST     ", p.Symbol)
	assert.Equal(t, DefaultURI, p.URI)
	assert.Equal(t, uint64(1_000_000_000_000_000), p.MintAmount())

	p, err = ValidateLaunch(LaunchRequest{Name: "Test", Symbol: "TST", Supply: "0", URI: "https://x/m.json"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.Supply)
	assert.Equal(t, "https://x/m.json", p.URI)

	p, err = ValidateLaunch(LaunchRequest{Name: "Test", Symbol: "TST", Supply: "1000000000"})
	require.NoError(t, err)
	assert.Equal(t, MaxSupply, p.Supply)

	for _, supply := range []string{"-1", "1000000001", "1.5", "lots"} {
		_, err := ValidateLaunch(LaunchRequest{Name: "Test", Symbol: "TST", Supply: supply})
		assert.ErrorIs(t, err, ErrSupplyOutOfRange, supply)
	}

	_, err = ValidateLaunch(LaunchRequest{Name: " ", Symbol: "TST"})
	assert.ErrorIs(t, err, ErrMissingNameOrSymbol)
	_, err = ValidateLaunch(LaunchRequest{Name: "Test"})
	assert.ErrorIs(t, err, ErrMissingNameOrSymbol)
}

func TestPadSymbol(t *testing.T) {
	assert.Equal(t, "ABC     ", PadSymbol("ABC"))
	assert.Equal(t, "ABCDEFGH", PadSymbol("ABCDEFGHIJ"))
	assert.Equal(t, "ЖЖЖЖ", PadSymbol("ЖЖЖЖЖ"))
	assert.Len(t, PadSymbol("ЖЖЖ"), SymbolWidth)
}

func TestProxyTransferLamports(t *testing.T) {
	got, err := ProxyTransferLamports(decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000_000), got)

	got, err = ProxyTransferLamports(decimal.RequireFromString("0.0000000005"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestCreateMint(t *testing.T) {
	ledger := mock.NewLedger()
	b := New(ledger, zaptest.NewLogger(t), computebudget.Config{})
	payer := solana.NewWallet().PublicKey()

	params, err := ValidateLaunch(LaunchRequest{Name: "Test", Symbol: "TST"})
	require.NoError(t, err)

	intent, mint, err := b.CreateMint(context.Background(), payer, params)
	require.NoError(t, err)
	assert.Equal(t, LabelCreateMint, intent.Label)
	require.Len(t, intent.CoSigners, 1)
	assert.Equal(t, mint, intent.CoSigners[0].PublicKey())
	require.Len(t, intent.Instructions, 4)
	assert.Equal(t, solana.SystemProgramID, intent.Instructions[0].ProgramID())
	for _, ix := range intent.Instructions[1:] {
		assert.Equal(t, token2022.ProgramID, ix.ProgramID())
	}
	assert.Equal(t, uint64(1150), intent.LastValidBlockHeight)
	assert.Equal(t, []string{"getMinimumBalanceForRentExemption", "getLatestBlockhash"}, ledger.CallLog())

	tx, err := intent.Transaction()
	require.NoError(t, err)
	assert.Equal(t, payer, tx.Message.AccountKeys[0])
	assert.Equal(t, uint8(2), tx.Message.Header.NumRequiredSignatures)
}

func TestLaunchStepsUseFreshBlockhash(t *testing.T) {
	ledger := mock.NewLedger()
	b := New(ledger, zaptest.NewLogger(t), computebudget.Config{})
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ata1, wantATA, err := b.CreateHoldingAccount(context.Background(), payer, mint)
	require.NoError(t, err)
	derived, err := token2022.FindAssociatedTokenAddress(payer, mint)
	require.NoError(t, err)
	assert.Equal(t, derived, wantATA)

	ledger.BlockHeight += 10
	mintTo, err := b.MintSupply(context.Background(), payer, mint, wantATA, 42)
	require.NoError(t, err)

	assert.NotEqual(t, ata1.Blockhash, mintTo.Blockhash)
	assert.Equal(t, LabelCreateATA, ata1.Label)
	assert.Equal(t, LabelMintTo, mintTo.Label)
}

func TestProxySwapWithPriorityFee(t *testing.T) {
	ledger := mock.NewLedger()
	b := New(ledger, zaptest.NewLogger(t), computebudget.Config{MicroLamports: 1000})
	payer := solana.NewWallet().PublicKey()

	intent, err := b.ProxySwap(context.Background(), payer, 1_000_000)
	require.NoError(t, err)
	require.Len(t, intent.Instructions, 2)
	assert.Equal(t, computebudget.ProgramID, intent.Instructions[0].ProgramID())

	tx, err := intent.Transaction()
	require.NoError(t, err)
	var keys []string
	for _, k := range tx.Message.AccountKeys {
		keys = append(keys, k.String())
	}
	assert.Contains(t, strings.Join(keys, ","), ProxySink.String())
}

func TestBlockhashFailure(t *testing.T) {
	ledger := mock.NewLedger()
	ledger.BlockhashErr = errors.New("boom")
	b := New(ledger, zaptest.NewLogger(t), computebudget.Config{})

	_, err := b.ProxySwap(context.Background(), solana.NewWallet().PublicKey(), 1)
	assert.ErrorContains(t, err, "boom")
}

func TestAggregatorSwapKeepsPayload(t *testing.T) {
	b := New(mock.NewLedger(), zaptest.NewLogger(t), computebudget.Config{})
	payer := solana.NewWallet().PublicKey()
	tx := &solana.Transaction{}
	tx.Message.RecentBlockhash = solana.Hash{1}

	intent, err := b.AggregatorSwap(tx, payer, 77)
	require.NoError(t, err)
	got, err := intent.Transaction()
	require.NoError(t, err)
	assert.Same(t, tx, got)
	assert.Equal(t, uint64(77), intent.LastValidBlockHeight)

	_, err = b.AggregatorSwap(nil, payer, 0)
	assert.Error(t, err)
}
