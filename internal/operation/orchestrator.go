// internal/operation/orchestrator.go
package operation

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// BalanceScheduler schedules the delayed post-mutation balance read.
type BalanceScheduler interface {
	Schedule(ctx context.Context, owner solana.PublicKey)
}

// SwapSource compiles an aggregator swap for a remote quote.
type SwapSource interface {
	GetSwapTransaction(ctx context.Context, q quote.Quote, user solana.PublicKey) (quote.SwapPayload, error)
}

// Deps are the collaborators of an Orchestrator. Aggregator, Refresher and Observer
// are optional.
type Deps struct {
	Client     blockchain.Client
	Builder    *builder.Builder
	Pipeline   *transaction.Pipeline
	Aggregator SwapSource
	Refresher  BalanceScheduler
	Explorer   string
	Observer   Observer
	Logger     *zap.Logger
}

// Orchestrator runs airdrop, token launch and swap operations end to end.
type Orchestrator struct {
	client     blockchain.Client
	builder    *builder.Builder
	pipeline   *transaction.Pipeline
	aggregator SwapSource
	refresher  BalanceScheduler
	explorer   string
	observer   Observer
	classifier classifier
	logger     *zap.Logger
}

func New(deps Deps) *Orchestrator {
	observer := deps.Observer
	if observer == nil {
		observer = func(Event) {}
	}
	return &Orchestrator{
		client:     deps.Client,
		builder:    deps.Builder,
		pipeline:   deps.Pipeline,
		aggregator: deps.Aggregator,
		refresher:  deps.Refresher,
		explorer:   deps.Explorer,
		observer:   observer,
		classifier: newClassifier(deps.Logger),
		logger:     deps.Logger.Named("orchestrator"),
	}
}

// run is one execution of the state machine.
type run struct {
	o      *Orchestrator
	kind   Kind
	id     string
	state  State
	step   string
	logger *zap.Logger
}

func (r *run) enter(state State) {
	r.state = state
	r.logger.Debug("State changed", zap.Stringer("state", state), zap.String("step", r.step))
	r.o.observer(Event{Kind: r.kind, State: state, Step: r.step, CorrelationID: r.id})
}

// operationFunc performs the validated body of an operation and returns the success
// outcome.
type operationFunc func(ctx context.Context, r *run, signer transaction.Signer) (Outcome, error)

// execute wraps body with the busy guard, connection check and outcome handling.
// The returned error is ErrBusy or nil; every other failure is in the Outcome.
func (o *Orchestrator) execute(ctx context.Context, s *Session, kind Kind, notConnected string, body operationFunc) (Outcome, error) {
	if !s.acquire(kind) {
		return Outcome{}, ErrBusy
	}
	defer s.release(kind)

	id := uuid.NewString()
	r := &run{
		o:      o,
		kind:   kind,
		id:     id,
		logger: o.logger.With(zap.String("operation", string(kind)), zap.String("correlation_id", id)),
	}
	r.enter(StateValidating)

	signer, ok := s.Signer()
	if !ok {
		return o.fail(r, validation(notConnected, nil)), nil
	}

	outcome, err := body(ctx, r, signer)
	if err != nil {
		return o.fail(r, err), nil
	}

	outcome.Kind = kind
	outcome.Status = StatusSuccess
	outcome.ClearInputs = true
	if outcome.HasSignature() {
		outcome.ExplorerURL = o.explorerURL(outcome.Signature)
	}
	r.step = ""
	r.enter(StateSucceeded)
	r.logger.Info("Operation succeeded",
		zap.String("message", outcome.Message),
		zap.String("signature", outcome.Signature.String()))

	if o.refresher != nil {
		o.refresher.Schedule(context.WithoutCancel(ctx), signer.PublicKey())
	}
	return outcome, nil
}

func (o *Orchestrator) fail(r *run, err error) Outcome {
	classified := o.classifier.classify(r.kind, err)
	r.enter(StateFailed)

	fields := []zap.Field{
		zap.String("category", string(classified.Category)),
		zap.String("message", classified.Message),
		zap.Stringer("last_state", r.state),
		zap.Error(err),
	}
	if errors.Is(err, context.Canceled) || classified.Category == CategoryValidation {
		r.logger.Info("Operation failed", fields...)
	} else {
		r.logger.Warn("Operation failed", fields...)
	}

	return Outcome{
		Kind:     r.kind,
		Status:   StatusFailed,
		Category: classified.Category,
		Message:  classified.Message,
		Mint:     classified.Mint,
	}
}

func (o *Orchestrator) explorerURL(sig solana.Signature) string {
	return token.ExplorerTxURL(o.explorer, sig.String())
}

// send signs, submits and confirms one intent.
func (o *Orchestrator) send(ctx context.Context, r *run, signer transaction.Signer, intent *builder.Intent) (solana.Signature, error) {
	tx, err := intent.Transaction()
	if err != nil {
		return solana.Signature{}, err
	}

	r.enter(StateSubmitting)
	sig, err := o.pipeline.Submit(ctx, tx, signer, intent.CoSigners...)
	if err != nil {
		return solana.Signature{}, err
	}
	r.logger.Info("Transaction submitted",
		zap.String("intent", intent.Label),
		zap.String("signature", sig.String()))

	r.enter(StateConfirming)
	if _, err := o.pipeline.Confirm(ctx, sig, intent.LastValidBlockHeight); err != nil {
		return sig, err
	}
	return sig, nil
}
