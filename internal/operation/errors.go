// internal/operation/errors.go
package operation

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// ErrBusy is returned when the same action is already in progress for a session.
var ErrBusy = errors.New("operation already in progress")

// Category is the user-facing failure class.
type Category string

const (
	CategoryNone                  Category = ""
	CategoryUserRejected          Category = "user_rejected"
	CategoryInsufficientFunds     Category = "insufficient_funds"
	CategoryNetworkTransient      Category = "network_transient"
	CategoryAggregatorUnavailable Category = "aggregator_unavailable"
	CategoryValidation            Category = "validation"
	CategoryPartialSequence       Category = "partial_sequence_failure"
	CategoryUnknown               Category = "unknown"
)

// Error is a classified operation failure. Message is safe to show; Err is the cause
// and is only logged.
type Error struct {
	Category Category
	Message  string
	Mint     solana.PublicKey
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validation(msg string, cause error) *Error {
	return &Error{Category: CategoryValidation, Message: msg, Err: cause}
}

// User-facing texts.
const (
	msgConnectWallet     = "Connect your wallet first."
	msgRejected          = "Transaction was rejected by user."
	msgNetwork           = "Network issue. Please try again in a moment."
	msgSimulation        = "Transaction failed. Check your inputs and try again."
	msgInsufficientSOL   = "Insufficient SOL balance. Please add more SOL to your wallet."
	msgInsufficientSwap  = "Insufficient balance for this swap."
	msgLaunchMinBalance  = "Insufficient SOL balance. Need at least 0.01 SOL for transaction fees."
	msgAirdropFailed     = "Airdrop failed. Try again."
	msgLaunchFailed      = "Token creation failed. Try again."
	msgSwapFailed        = "Swap failed. Please try again."
	msgInvalidSOLAmount  = "Enter a valid SOL amount."
	msgInvalidAmount     = "Enter a valid amount."
	msgNeedQuote         = "Connect wallet and get a quote first."
	msgStaleQuote        = "Quote is out of date. Wait for a fresh quote."
	msgMissingNameSymbol = "Please enter name and symbol."
	msgSupplyRange       = "Initial supply must be between 0 and 1,000,000,000"
)

func genericMessage(kind Kind) string {
	switch kind {
	case KindAirdrop:
		return msgAirdropFailed
	case KindLaunch:
		return msgLaunchFailed
	default:
		return msgSwapFailed
	}
}

// classifier maps raw failures onto the user-facing taxonomy.
type classifier struct {
	analyzer *solbc.ErrorAnalyzer
	logger   *zap.Logger
}

func newClassifier(logger *zap.Logger) classifier {
	return classifier{
		analyzer: solbc.NewErrorAnalyzer(logger),
		logger:   logger.Named("classifier"),
	}
}

func (c classifier) classify(kind Kind, err error) *Error {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr
	}

	switch {
	case errors.Is(err, wallet.ErrRejected):
		return &Error{Category: CategoryUserRejected, Message: msgRejected, Err: err}
	case errors.Is(err, quote.ErrAggregatorUnavailable):
		return &Error{Category: CategoryAggregatorUnavailable, Message: genericMessage(kind), Err: err}
	case errors.Is(err, transaction.ErrBlockhashExpired),
		errors.Is(err, transaction.ErrConfirmationTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return &Error{Category: CategoryNetworkTransient, Message: msgNetwork, Err: err}
	}

	analysis := c.analyzer.Analyze(err)
	switch analysis.Kind {
	case solbc.FailureInsufficientFunds:
		msg := msgInsufficientSOL
		if kind == KindSwap {
			msg = msgInsufficientSwap
		}
		return &Error{Category: CategoryInsufficientFunds, Message: msg, Err: err}
	case solbc.FailureBlockhashNotFound, solbc.FailureRateLimited, solbc.FailureTransport:
		return &Error{Category: CategoryNetworkTransient, Message: msgNetwork, Err: err}
	case solbc.FailureSimulation:
		return &Error{Category: CategoryNetworkTransient, Message: msgSimulation, Err: err}
	}

	if errors.Is(err, transaction.ErrTransactionFailed) {
		return &Error{Category: CategoryNetworkTransient, Message: msgSimulation, Err: err}
	}
	if ce := c.logger.Check(zap.DebugLevel, "Unclassified failure"); ce != nil {
		ce.Write(zap.String("operation", string(kind)),
			zap.String("analysis", c.analyzer.FormatErrorAnalysis(analysis)))
	}
	return &Error{Category: CategoryUnknown, Message: genericMessage(kind), Err: err}
}
