// internal/quote/debounce.go
package quote

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/schedule"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// DefaultQuietPeriod is how long input must stay unchanged before a quote is fetched.
const DefaultQuietPeriod = 500 * time.Millisecond

// Input is the swap form state a quote is computed from.
type Input struct {
	From        token.Asset
	To          token.Asset
	Amount      string
	SlippageBps uint16
}

func (in Input) same(other Input) bool {
	return in.From.Address.Equals(other.From.Address) &&
		in.To.Address.Equals(other.To.Address) &&
		in.Amount == other.Amount &&
		in.SlippageBps == other.SlippageBps
}

// quotable reports whether the amount is a positive number.
func (in Input) quotable() bool {
	_, err := token.ParseAmount(in.Amount)
	return err == nil
}

// Matches reports whether q was computed for this input: same mints and the same
// amount in minor units of the input token.
func (in Input) Matches(q Quote) bool {
	if !q.InputMint.Equals(in.From.Address) || !q.OutputMint.Equals(in.To.Address) {
		return false
	}
	amount, err := token.ParseAmount(in.Amount)
	if err != nil {
		return false
	}
	units, err := token.ToMinorUnits(amount, in.From.Decimals)
	return err == nil && units == q.InAmount
}

// Tracker holds the quote for the current input. Every input change bumps the
// generation; results carrying an older generation are discarded.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	input   Input
	current *Quote
}

// SetInput records new input. A change clears the current quote immediately.
func (t *Tracker) SetInput(in Input) (gen uint64, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen > 0 && t.input.same(in) {
		return t.gen, false
	}
	t.gen++
	t.input = in
	t.current = nil
	return t.gen, true
}

// Accept stores q if gen still describes the current input.
func (t *Tracker) Accept(gen uint64, q Quote) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.current = &q
	return true
}

// Invalidate drops the current quote and any result still in flight.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.input = Input{}
	t.current = nil
}

// Current returns the quote for the current input, if one has arrived.
func (t *Tracker) Current() (Quote, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Quote{}, false
	}
	return *t.current, true
}

// Debouncer fetches a quote once input has been quiet for the configured period.
// onUpdate is called with the new quote, or with ok=false when the quote was cleared.
// Notifications are serialized with input changes: once the clear for an input change
// has been delivered, no quote for the older input follows it.
type Debouncer struct {
	// notify covers tracker transitions together with the onUpdate call they produce.
	notify   sync.Mutex
	quoter   Quoter
	tracker  Tracker
	task     schedule.Task
	delay    time.Duration
	onUpdate func(q Quote, ok bool)
	logger   *zap.Logger
}

func NewDebouncer(quoter Quoter, delay time.Duration, logger *zap.Logger, onUpdate func(q Quote, ok bool)) *Debouncer {
	if delay <= 0 {
		delay = DefaultQuietPeriod
	}
	if onUpdate == nil {
		onUpdate = func(Quote, bool) {}
	}
	return &Debouncer{
		quoter:   quoter,
		delay:    delay,
		onUpdate: onUpdate,
		logger:   logger.Named("quote-debouncer"),
	}
}

// Update records new input. The current quote is cleared synchronously; a fetch is
// scheduled only for a positive amount and supersedes any pending or running one.
func (d *Debouncer) Update(ctx context.Context, in Input) {
	d.notify.Lock()
	defer d.notify.Unlock()

	gen, changed := d.tracker.SetInput(in)
	if !changed {
		return
	}
	d.onUpdate(Quote{}, false)

	if !in.quotable() {
		d.task.Cancel()
		return
	}

	d.task.Schedule(ctx, d.delay, func(ctx context.Context) {
		q, err := d.quoter.GetQuote(ctx, in.From, in.To, in.Amount, in.SlippageBps)
		if err != nil {
			if ctx.Err() == nil {
				d.logger.Warn("Quote failed", zap.Error(err))
			}
			return
		}

		d.notify.Lock()
		defer d.notify.Unlock()
		if !d.tracker.Accept(gen, q) {
			d.logger.Debug("Discarding stale quote", zap.Uint64("generation", gen))
			return
		}
		d.onUpdate(q, true)
	})
}

// Invalidate clears the quote and cancels any pending fetch.
func (d *Debouncer) Invalidate() {
	d.notify.Lock()
	defer d.notify.Unlock()

	d.task.Cancel()
	d.tracker.Invalidate()
	d.onUpdate(Quote{}, false)
}

// Current returns the settled quote for the latest input.
func (d *Debouncer) Current() (Quote, bool) {
	return d.tracker.Current()
}

// Close cancels pending work and waits for a running fetch to return.
func (d *Debouncer) Close() {
	d.task.Cancel()
	d.task.Wait()
}
