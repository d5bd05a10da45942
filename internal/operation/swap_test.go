package operation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

type stubSwapSource struct {
	build func(user solana.PublicKey) (quote.SwapPayload, error)
	calls int
}

func (s *stubSwapSource) GetSwapTransaction(_ context.Context, _ quote.Quote, user solana.PublicKey) (quote.SwapPayload, error) {
	s.calls++
	return s.build(user)
}

func asset(t *testing.T, symbol string) token.Asset {
	t.Helper()
	a, ok := token.DefaultRegistry().BySymbol(symbol)
	require.True(t, ok)
	return a
}

func syntheticQuote(from, to token.Asset, in, out uint64) *quote.Quote {
	return &quote.Quote{
		InputMint:    from.Address,
		OutputMint:   to.Address,
		InAmount:     in,
		OutAmount:    out,
		MinOutAmount: out - out/200,
		SlippageBps:  50,
		Source:       quote.SourceSynthetic,
	}
}

func remoteQuote(from, to token.Asset, in, out uint64) *quote.Quote {
	q := syntheticQuote(from, to, in, out)
	q.Source = quote.SourceRemote
	q.Raw = json.RawMessage(`{"outAmount":"1"}`)
	return q
}

func TestSwap_SyntheticQuoteUsesProxyTransfer(t *testing.T) {
	h := newHarness(t, nil)
	h.ledger.SetBalance(h.wallet.PublicKey(), 1_000_000_000)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "2",
		Quote: syntheticQuote(sol, usdc, 2_000_000_000, 298_500_000),
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, out.Status, out.Message)
	assert.Equal(t, "Demo swap completed! Simulated swapping 2 SOL to 298.5 USDC (small SOL fee deducted).", out.Message)
	assert.True(t, out.ClearInputs)
	assert.False(t, out.Simulated)

	sent := h.ledger.SentTransactions()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message.AccountKeys, builder.ProxySink)
	assert.Equal(t, 1, h.refresher.count())
}

func TestSwap_ProxyInsufficientBalance(t *testing.T) {
	h := newHarness(t, nil)
	// 2 SOL moves 0.02 SOL; the wallet holds less than that plus the fee reserve
	h.ledger.SetBalance(h.wallet.PublicKey(), 20_000_000+builder.ProxyFeeReserve-1)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "2",
		Quote: syntheticQuote(sol, usdc, 2_000_000_000, 298_500_000),
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryInsufficientFunds, out.Category)
	assert.Equal(t, msgInsufficientSwap, out.Message)
	assert.Zero(t, h.sends())
}

func TestSwap_NonNativeSourceIsSimulated(t *testing.T) {
	h := newHarness(t, nil)
	usdc, sol := asset(t, "USDC"), asset(t, "SOL")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: usdc, To: sol, Amount: "150",
		Quote: syntheticQuote(usdc, sol, 150_000_000, 995_000_000),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.True(t, out.Simulated)
	assert.False(t, out.HasSignature())
	assert.Empty(t, out.ExplorerURL)
	assert.Zero(t, h.ledger.CallCount())
}

func TestSwap_RequiresQuote(t *testing.T) {
	h := newHarness(t, nil)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{From: sol, To: usdc, Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, CategoryValidation, out.Category)
	assert.Equal(t, msgNeedQuote, out.Message)

	out, err = h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1",
		Quote: syntheticQuote(usdc, sol, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, msgStaleQuote, out.Message)
	assert.Zero(t, h.ledger.CallCount())
}

func TestSwap_QuoteForOtherAmountIsStale(t *testing.T) {
	h := newHarness(t, nil)
	h.ledger.SetBalance(h.wallet.PublicKey(), 10_000_000_000)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	// quoted for 1 SOL while the form now says 2
	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "2",
		Quote: syntheticQuote(sol, usdc, 1_000_000_000, 149_250_000),
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryValidation, out.Category)
	assert.Equal(t, msgStaleQuote, out.Message)
	assert.Zero(t, h.ledger.CallCount())

	// floored minor units decide the match
	out, err = h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1.0000000009",
		Quote: syntheticQuote(sol, usdc, 1_000_000_000, 149_250_000),
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, out.Status, out.Message)
}

func TestSwap_RemoteQuoteUsesAggregatorPayload(t *testing.T) {
	var h *harness
	source := &stubSwapSource{build: func(user solana.PublicKey) (quote.SwapPayload, error) {
		bh, err := h.ledger.GetLatestBlockhash(context.Background())
		if err != nil {
			return quote.SwapPayload{}, err
		}
		tx, err := solana.NewTransaction(
			[]solana.Instruction{system.NewTransferInstruction(7, user, solana.NewWallet().PublicKey()).Build()},
			bh.Hash,
			solana.TransactionPayer(user),
		)
		return quote.SwapPayload{Transaction: tx, LastValidBlockHeight: bh.LastValidBlockHeight}, err
	}}
	h = newHarness(t, source)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1",
		Quote: remoteQuote(sol, usdc, 1_000_000_000, 151_230_000),
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, out.Status, out.Message)
	assert.Equal(t, "Swap successful! Swapped 1 SOL for 151.23 USDC.", out.Message)
	assert.Equal(t, 1, source.calls)

	sent := h.ledger.SentTransactions()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].Message.AccountKeys, builder.ProxySink)
}

func TestSwap_AggregatorFailureFallsBackOnce(t *testing.T) {
	source := &stubSwapSource{build: func(solana.PublicKey) (quote.SwapPayload, error) {
		return quote.SwapPayload{}, quote.ErrAggregatorUnavailable
	}}
	h := newHarness(t, source)
	h.ledger.SetBalance(h.wallet.PublicKey(), 1_000_000_000)
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1",
		Quote: remoteQuote(sol, usdc, 1_000_000_000, 151_230_000),
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, out.Status, out.Message)
	assert.Contains(t, out.Message, "Demo swap completed!")
	assert.Equal(t, 1, source.calls)

	sent := h.ledger.SentTransactions()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message.AccountKeys, builder.ProxySink)
}

func TestSwap_FallbackFailureIsFinal(t *testing.T) {
	source := &stubSwapSource{build: func(solana.PublicKey) (quote.SwapPayload, error) {
		return quote.SwapPayload{}, quote.ErrAggregatorUnavailable
	}}
	h := newHarness(t, source)
	h.ledger.SetBalance(h.wallet.PublicKey(), 1_000_000_000)
	h.ledger.SendHook = func(int, *solana.Transaction) error {
		return errors.New("Transaction simulation failed: Attempt to debit an account but found no record of a prior credit: insufficient funds")
	}
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1",
		Quote: remoteQuote(sol, usdc, 1_000_000_000, 151_230_000),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, CategoryInsufficientFunds, out.Category)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, h.sends())
}

func TestSwap_RejectionDoesNotFallBack(t *testing.T) {
	var h *harness
	source := &stubSwapSource{build: func(user solana.PublicKey) (quote.SwapPayload, error) {
		tx, err := solana.NewTransaction(
			[]solana.Instruction{system.NewTransferInstruction(7, user, solana.NewWallet().PublicKey()).Build()},
			solana.Hash{9},
			solana.TransactionPayer(user),
		)
		return quote.SwapPayload{Transaction: tx, LastValidBlockHeight: 5000}, err
	}}
	h = newHarness(t, source)
	h.wallet.WithApproval(func(context.Context, *solana.Transaction) bool { return false })
	sol, usdc := asset(t, "SOL"), asset(t, "USDC")

	out, err := h.orch.Swap(context.Background(), h.session, SwapRequest{
		From: sol, To: usdc, Amount: "1",
		Quote: remoteQuote(sol, usdc, 1_000_000_000, 151_230_000),
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryUserRejected, out.Category)
	assert.Zero(t, h.sends())
	assert.NotContains(t, h.ledger.CallLog(), "getBalance")
}
