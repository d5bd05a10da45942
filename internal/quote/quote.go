// internal/quote/quote.go
package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrAggregatorUnavailable = errors.New("aggregator unavailable")
	ErrInvalidAmount         = errors.New("invalid quote amount")
	ErrUnsupportedPair       = errors.New("unsupported asset pair")
	ErrSlippageOutOfRange    = errors.New("slippage must be between 0.1% and 50%")
)

const (
	MinSlippagePct     = 0.1
	MaxSlippagePct     = 50.0
	DefaultSlippagePct = 0.5
)

// Source tells where a quote came from.
type Source int

const (
	SourceRemote Source = iota
	SourceSynthetic
)

func (s Source) String() string {
	if s == SourceRemote {
		return "remote"
	}
	return "synthetic"
}

// Quote is an immutable exchange estimate. Amounts are minor units of the respective
// mints.
type Quote struct {
	InputMint      solana.PublicKey
	OutputMint     solana.PublicKey
	InAmount       uint64
	OutAmount      uint64
	MinOutAmount   uint64
	SlippageBps    uint16
	PriceImpactPct float64
	Source         Source
	// Raw is the aggregator's response body, replayed verbatim to POST /swap.
	Raw       json.RawMessage
	CreatedAt time.Time
}

func (q Quote) IsRemote() bool {
	return q.Source == SourceRemote && len(q.Raw) > 0
}

// SlippageBps converts a percentage in [0.1, 50] to basis points, floored.
func SlippageBps(pct float64) (uint16, error) {
	if math.IsNaN(pct) || pct < MinSlippagePct || pct > MaxSlippagePct {
		return 0, fmt.Errorf("%w: %v", ErrSlippageOutOfRange, pct)
	}
	return uint16(math.Floor(pct*100 + 1e-9)), nil
}

// minOut subtracts the slippage allowance from out.
func minOut(out uint64, bps uint16) uint64 {
	return out - out*uint64(bps)/10_000
}
