package operation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

func TestClassify(t *testing.T) {
	c := newClassifier(zaptest.NewLogger(t))

	tests := []struct {
		name string
		kind Kind
		err  error
		want Category
		msg  string
	}{
		{"rejected", KindLaunch, fmt.Errorf("sign transaction: %w", wallet.ErrRejected), CategoryUserRejected, msgRejected},
		{"expired", KindSwap, transaction.ErrBlockhashExpired, CategoryNetworkTransient, msgNetwork},
		{"timeout", KindAirdrop, transaction.ErrConfirmationTimeout, CategoryNetworkTransient, msgNetwork},
		{"deadline", KindAirdrop, context.DeadlineExceeded, CategoryNetworkTransient, msgNetwork},
		{"aggregator", KindSwap, quote.ErrAggregatorUnavailable, CategoryAggregatorUnavailable, msgSwapFailed},
		{
			"rpc insufficient lamports", KindLaunch,
			&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",
				Data: map[string]interface{}{"logs": []interface{}{"Transfer: insufficient lamports 100, need 2000"}}},
			CategoryInsufficientFunds, msgInsufficientSOL,
		},
		{"swap insufficient", KindSwap, errors.New("insufficient funds for fee"), CategoryInsufficientFunds, msgInsufficientSwap},
		{"blockhash", KindLaunch, errors.New("Blockhash not found"), CategoryNetworkTransient, msgNetwork},
		{"simulation", KindLaunch, &jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: invalid account data"}, CategoryNetworkTransient, msgSimulation},
		{"failed on chain", KindSwap, fmt.Errorf("%w: map[InstructionError:[0 Custom]]", transaction.ErrTransactionFailed), CategoryNetworkTransient, msgSimulation},
		{"unknown", KindAirdrop, errors.New("something odd"), CategoryUnknown, msgAirdropFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.classify(tt.kind, tt.err)
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.msg, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyLogsUnclassifiedAnalysis(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := newClassifier(zap.New(core))

	got := c.classify(KindLaunch, &jsonrpc.RPCError{Code: -32002, Message: "weird node state"})
	assert.Equal(t, CategoryUnknown, got.Category)

	entries := logs.FilterMessage("Unclassified failure").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(KindLaunch), fields["operation"])
	assert.Contains(t, fields["analysis"], "weird node state")
	assert.Contains(t, fields["analysis"], "-32002")
}

func TestClassifyKeepsClassifiedErrors(t *testing.T) {
	c := newClassifier(zaptest.NewLogger(t))
	orig := validation(msgSupplyRange, nil)
	assert.Same(t, orig, c.classify(KindLaunch, fmt.Errorf("wrapped: %w", orig)))
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateIdle, StateValidating, StateBuilding, StateSubmitting, StateConfirming} {
		assert.False(t, s.Terminal(), s.String())
	}
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
}
