// internal/balance/refresher.go
package balance

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/schedule"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// DefaultRefreshDelay gives the ledger time to reflect a confirmed mutation.
const DefaultRefreshDelay = 3 * time.Second

var errNativeUnknown = errors.New("SOL balance unknown")

type RefresherConfig struct {
	Delay    time.Duration
	MaxTries uint
	// RetryInterval is the first backoff step between tries.
	RetryInterval time.Duration
}

func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		Delay:         DefaultRefreshDelay,
		MaxTries:      3,
		RetryInterval: 500 * time.Millisecond,
	}
}

// Refresher runs delayed balance refreshes into a Store. A new schedule supersedes
// the pending one.
type Refresher struct {
	reader    *Reader
	store     *Store
	config    RefresherConfig
	task      schedule.Task
	onRefresh func(Snapshot)
	logger    *zap.Logger
}

func NewRefresher(reader *Reader, store *Store, config RefresherConfig, logger *zap.Logger) *Refresher {
	def := DefaultRefresherConfig()
	if config.Delay <= 0 {
		config.Delay = def.Delay
	}
	if config.MaxTries == 0 {
		config.MaxTries = def.MaxTries
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = def.RetryInterval
	}
	return &Refresher{
		reader:    reader,
		store:     store,
		config:    config,
		onRefresh: func(Snapshot) {},
		logger:    logger.Named("balance-refresher"),
	}
}

// OnRefresh installs a callback invoked after every stored snapshot.
func (r *Refresher) OnRefresh(fn func(Snapshot)) {
	if fn == nil {
		fn = func(Snapshot) {}
	}
	r.onRefresh = fn
}

// Now refreshes immediately, as on connect.
func (r *Refresher) Now(ctx context.Context, owner solana.PublicKey) (Snapshot, error) {
	snap, err := r.refresh(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Schedule refreshes owner after the configured delay.
func (r *Refresher) Schedule(ctx context.Context, owner solana.PublicKey) {
	r.logger.Debug("Balance refresh scheduled", zap.Duration("delay", r.config.Delay))
	r.task.Schedule(ctx, r.config.Delay, func(ctx context.Context) {
		if _, err := r.refresh(ctx, owner); err != nil && ctx.Err() == nil {
			r.logger.Warn("Balance refresh failed", zap.Error(err))
		}
	})
}

// Cancel drops a pending refresh.
func (r *Refresher) Cancel() {
	r.task.Cancel()
}

// Wait blocks until a running refresh has finished.
func (r *Refresher) Wait() {
	r.task.Wait()
}

// refresh retries while the SOL balance is unknown, then stores whatever it got.
func (r *Refresher) refresh(ctx context.Context, owner solana.PublicKey) (Snapshot, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.config.RetryInterval
	policy.MaxInterval = r.config.RetryInterval * 4

	var last Snapshot
	operation := func() (Snapshot, error) {
		snap, err := r.reader.Refresh(ctx, owner)
		if err != nil {
			return Snapshot{}, backoff.Permanent(err)
		}
		last = snap
		if !snap.Get(token.NativeMint).IsKnown() {
			return snap, errNativeUnknown
		}
		return snap, nil
	}
	notify := func(err error, d time.Duration) {
		r.logger.Info("Retrying balance read", zap.Error(err), zap.Duration("backoff", d))
	}

	snap, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(r.config.MaxTries),
		backoff.WithNotify(notify))
	if err != nil {
		if ctx.Err() != nil || last.Len() == 0 {
			return Snapshot{}, err
		}
		// out of tries: keep the partial read, SOL stays Unknown
		snap = last
	}

	r.store.Replace(snap)
	r.onRefresh(snap)
	return snap, nil
}
