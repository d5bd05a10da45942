// internal/quote/engine.go
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// DefaultTimeout bounds the remote quote request.
const DefaultTimeout = 5 * time.Second

// MaxSyntheticImpactPct caps the price impact reported for synthetic quotes.
const MaxSyntheticImpactPct = 0.5

// Aggregator is the remote quote source.
type Aggregator interface {
	GetQuote(ctx context.Context, in, out solana.PublicKey, amount uint64, slippageBps uint16) (Quote, error)
}

// Quoter produces a quote for user-entered input.
type Quoter interface {
	GetQuote(ctx context.Context, from, to token.Asset, amountText string, slippageBps uint16) (Quote, error)
}

// Engine prefers the aggregator and falls back to the rate table on any failure.
type Engine struct {
	aggregator Aggregator
	rates      *RateTable
	timeout    time.Duration
	impact     func() float64
	now        func() time.Time
	logger     *zap.Logger
}

// NewEngine creates an engine. A nil aggregator means synthetic quotes only.
func NewEngine(aggregator Aggregator, rates *RateTable, timeout time.Duration, logger *zap.Logger) *Engine {
	if rates == nil {
		rates = DefaultRates()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		aggregator: aggregator,
		rates:      rates,
		timeout:    timeout,
		impact:     func() float64 { return rand.Float64() * MaxSyntheticImpactPct },
		now:        time.Now,
		logger:     logger.Named("quote-engine"),
	}
}

// SetImpactSource replaces the random price-impact generator.
func (e *Engine) SetImpactSource(fn func() float64) {
	e.impact = fn
}

// GetQuote parses amountText, floors it to minor units of from and prices it.
// Remote failures never surface: the synthetic path always answers for a pair in the
// rate table.
func (e *Engine) GetQuote(ctx context.Context, from, to token.Asset, amountText string, slippageBps uint16) (Quote, error) {
	amount, err := token.ParseAmount(amountText)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	units, err := token.ToMinorUnits(amount, from.Decimals)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if units == 0 {
		return Quote{}, fmt.Errorf("%w: below one %s minor unit", ErrInvalidAmount, from.Symbol)
	}

	if e.aggregator != nil {
		q, err := e.remote(ctx, from, to, units, slippageBps)
		if err == nil {
			return q, nil
		}
		if ctx.Err() != nil {
			// caller gave up; a superseded request must not produce a quote
			return Quote{}, ctx.Err()
		}
		e.logger.Info("Aggregator unavailable, using synthetic quote",
			zap.String("pair", from.Symbol+"/"+to.Symbol),
			zap.Error(err))
	}

	impact := e.impact()
	if impact < 0 {
		impact = 0
	} else if impact > MaxSyntheticImpactPct {
		impact = MaxSyntheticImpactPct
	}
	q, err := e.rates.synthesize(from, to, units, slippageBps, impact)
	if err != nil {
		return Quote{}, fmt.Errorf("%s/%s: %w", from.Symbol, to.Symbol, err)
	}
	q.CreatedAt = e.now()
	return q, nil
}

func (e *Engine) remote(ctx context.Context, from, to token.Asset, units uint64, bps uint16) (Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	q, err := e.aggregator.GetQuote(ctx, from.Address, to.Address, units, bps)
	if err != nil {
		return Quote{}, err
	}
	if q.OutAmount == 0 {
		return Quote{}, errors.New("aggregator returned an empty output amount")
	}
	if q.MinOutAmount > q.OutAmount {
		q.MinOutAmount = q.OutAmount
	}
	return q, nil
}
