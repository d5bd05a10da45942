package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/mock"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

func fastConfig() Config {
	return Config{PollInterval: time.Millisecond, ConfirmTimeout: time.Second}
}

func newTransfer(t *testing.T, ledger *mock.Ledger, from solana.PublicKey) (*solana.Transaction, uint64) {
	t.Helper()
	bh, err := ledger.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(5000, from, solana.NewWallet().PublicKey()).Build()},
		bh.Hash,
		solana.TransactionPayer(from),
	)
	require.NoError(t, err)
	return tx, bh.LastValidBlockHeight
}

func TestPipeline_SubmitThenConfirm(t *testing.T) {
	ledger := mock.NewLedger()
	w := wallet.Generate()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := NewPipeline(ledger, zaptest.NewLogger(t), fastConfig(), metrics)

	tx, lastValid := newTransfer(t, ledger, w.PublicKey())
	sig, err := p.Submit(context.Background(), tx, w)
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], sig)

	status, err := p.Confirm(context.Background(), sig, lastValid)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)
	assert.Len(t, ledger.SentTransactions(), 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.outcomes.WithLabelValues("confirmed")))
}

func TestPipeline_ConfirmFailedOnChain(t *testing.T) {
	ledger := mock.NewLedger()
	ledger.StatusHook = func(solana.Signature) *rpc.SignatureStatusesResult {
		return &rpc.SignatureStatusesResult{
			ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
			Err:                map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
		}
	}
	w := wallet.Generate()
	p := NewPipeline(ledger, zaptest.NewLogger(t), fastConfig(), nil)

	tx, lastValid := newTransfer(t, ledger, w.PublicKey())
	sig, err := p.Submit(context.Background(), tx, w)
	require.NoError(t, err)

	status, err := p.Confirm(context.Background(), sig, lastValid)
	assert.Equal(t, StatusFailed, status)
	assert.ErrorIs(t, err, ErrTransactionFailed)
}

func TestPipeline_ConfirmExpired(t *testing.T) {
	ledger := mock.NewLedger()
	ledger.StatusHook = func(solana.Signature) *rpc.SignatureStatusesResult { return nil }
	ledger.HeightStep = 100
	w := wallet.Generate()
	p := NewPipeline(ledger, zaptest.NewLogger(t), fastConfig(), nil)

	tx, lastValid := newTransfer(t, ledger, w.PublicKey())
	sig, err := p.Submit(context.Background(), tx, w)
	require.NoError(t, err)

	status, err := p.Confirm(context.Background(), sig, lastValid)
	assert.Equal(t, StatusExpired, status)
	assert.ErrorIs(t, err, ErrBlockhashExpired)
	// expiry is reported, never resent
	assert.Len(t, ledger.SentTransactions(), 1)
}

func TestPipeline_ConfirmTimeout(t *testing.T) {
	ledger := mock.NewLedger()
	ledger.StatusHook = func(solana.Signature) *rpc.SignatureStatusesResult { return nil }
	p := NewPipeline(ledger, zaptest.NewLogger(t), Config{PollInterval: time.Millisecond, ConfirmTimeout: 20 * time.Millisecond}, nil)

	status, err := p.Confirm(context.Background(), solana.Signature{1}, 0)
	assert.Equal(t, StatusExpired, status)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
}

func TestPipeline_SubmitRejectedBySigner(t *testing.T) {
	ledger := mock.NewLedger()
	w := wallet.Generate().WithApproval(func(context.Context, *solana.Transaction) bool { return false })
	p := NewPipeline(ledger, zaptest.NewLogger(t), fastConfig(), nil)

	tx, _ := newTransfer(t, ledger, w.PublicKey())
	_, err := p.Submit(context.Background(), tx, w)
	assert.ErrorIs(t, err, wallet.ErrRejected)
	assert.Empty(t, ledger.SentTransactions())
}

func TestPipeline_SubmitSendError(t *testing.T) {
	ledger := mock.NewLedger()
	boom := errors.New("Transaction simulation failed: Blockhash not found")
	ledger.SendHook = func(int, *solana.Transaction) error { return boom }
	w := wallet.Generate()
	p := NewPipeline(ledger, zaptest.NewLogger(t), fastConfig(), nil)

	tx, _ := newTransfer(t, ledger, w.PublicKey())
	_, err := p.Submit(context.Background(), tx, w)
	assert.ErrorIs(t, err, boom)
}

func TestValidator(t *testing.T) {
	v := NewValidator(zaptest.NewLogger(t))
	payer := solana.NewWallet().PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build()},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	assert.ErrorIs(t, v.ValidateUnsigned(tx, payer), ErrInvalidBlockhash)

	tx.Message.RecentBlockhash = solana.Hash{9}
	assert.NoError(t, v.ValidateUnsigned(tx, payer))
	assert.ErrorIs(t, v.ValidateUnsigned(tx, solana.NewWallet().PublicKey()), ErrInvalidFeePayer)
	assert.ErrorIs(t, v.ValidateSigned(tx), ErrInvalidSignature)
}
