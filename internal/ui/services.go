package ui

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// Operations is the part of the orchestrator the screens drive.
type Operations interface {
	Airdrop(ctx context.Context, s *operation.Session, amountText string) (operation.Outcome, error)
	LaunchToken(ctx context.Context, s *operation.Session, req builder.LaunchRequest) (operation.Outcome, error)
	Swap(ctx context.Context, s *operation.Session, req operation.SwapRequest) (operation.Outcome, error)
}

// Balances reads and refreshes the connected identity's holdings.
type Balances interface {
	Now(ctx context.Context, owner solana.PublicKey) (balance.Snapshot, error)
	OnRefresh(fn func(balance.Snapshot))
}

// Recorder keeps a history of finished operations.
type Recorder interface {
	Record(owner solana.PublicKey, o operation.Outcome)
}

// Services are the collaborators of the terminal UI. Journal and Logs are optional.
type Services struct {
	Operations Operations
	Session    *operation.Session
	Registry   *token.Registry
	Quoter     quote.Quoter
	Balances   Balances
	// LoadSigner resolves the signing identity; the UI shows a placeholder until it returns.
	LoadSigner func(ctx context.Context) (transaction.Signer, error)
	Journal    Recorder
	Logs       *logger.Ring
	Updates    *UpdateSender

	QuoteDelay      time.Duration
	DefaultSlippage float64
	Logger          *zap.Logger
}

// Observer forwards operation state transitions into the program.
func Observer(updates *UpdateSender) operation.Observer {
	return func(e operation.Event) {
		updates.SendUpdate(OperationEventMsg{Event: e})
	}
}
