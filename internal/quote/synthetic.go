// internal/quote/synthetic.go
package quote

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

type pair struct {
	from, to solana.PublicKey
}

// RateTable holds fixed exchange rates. Every rate is registered together with its
// exact reciprocal so both directions agree.
type RateTable struct {
	rates map[pair]decimal.Decimal
}

func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[pair]decimal.Decimal)}
}

// DefaultRates is the offline table for the built-in assets.
func DefaultRates() *RateTable {
	t := NewRateTable()
	t.Set(token.NativeMint, token.USDCMint, decimal.NewFromInt(150))
	t.Set(token.NativeMint, token.USDTMint, decimal.NewFromInt(148))
	t.Set(token.USDCMint, token.USDTMint, decimal.RequireFromString("0.998"))
	return t
}

// Set registers rate for from→to and 1/rate for to→from.
func (t *RateTable) Set(from, to solana.PublicKey, rate decimal.Decimal) {
	t.rates[pair{from, to}] = rate
	t.rates[pair{to, from}] = decimal.NewFromInt(1).Div(rate)
}

// Rate returns the from→to rate; identical assets trade at 1.
func (t *RateTable) Rate(from, to solana.PublicKey) (decimal.Decimal, bool) {
	if from.Equals(to) {
		return decimal.NewFromInt(1), true
	}
	r, ok := t.rates[pair{from, to}]
	return r, ok
}

// synthesize prices amount (minor units of from) against the table. The output is
// already reduced by the slippage allowance, min-out by a second allowance.
func (t *RateTable) synthesize(from, to token.Asset, amount uint64, bps uint16, impact float64) (Quote, error) {
	rate, ok := t.Rate(from.Address, to.Address)
	if !ok {
		return Quote{}, ErrUnsupportedPair
	}
	keep := decimal.NewFromInt(1).Sub(decimal.New(int64(bps), -4))
	value := token.FromMinorUnits(amount, from.Decimals).Mul(rate).Mul(keep)
	out, err := token.ToMinorUnits(value, to.Decimals)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		InputMint:      from.Address,
		OutputMint:     to.Address,
		InAmount:       amount,
		OutAmount:      out,
		MinOutAmount:   minOut(out, bps),
		SlippageBps:    bps,
		PriceImpactPct: impact,
		Source:         SourceSynthetic,
	}, nil
}
