// internal/operation/swap.go
package operation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// SwapRequest is the swap form at the moment the user confirms.
type SwapRequest struct {
	From   token.Asset
	To     token.Asset
	Amount string
	// Quote is the current quote for From/To/Amount; nil when none has settled.
	Quote *quote.Quote
}

// Swap executes a quoted swap. A remote quote goes through the aggregator's compiled
// transaction; if that path fails for any reason other than the user declining, the
// proxy transfer is tried once. Synthetic quotes use the proxy transfer directly.
func (o *Orchestrator) Swap(ctx context.Context, s *Session, req SwapRequest) (Outcome, error) {
	return o.execute(ctx, s, KindSwap, msgNeedQuote, func(ctx context.Context, r *run, signer transaction.Signer) (Outcome, error) {
		if req.Quote == nil {
			return Outcome{}, validation(msgNeedQuote, nil)
		}
		q := *req.Quote
		if !q.InputMint.Equals(req.From.Address) || !q.OutputMint.Equals(req.To.Address) {
			return Outcome{}, validation(msgStaleQuote, nil)
		}
		amount, err := token.ParseAmount(req.Amount)
		if err != nil {
			return Outcome{}, validation(msgInvalidAmount, err)
		}
		units, err := token.ToMinorUnits(amount, req.From.Decimals)
		if err != nil {
			return Outcome{}, validation(msgInvalidAmount, err)
		}
		if q.InAmount != units {
			return Outcome{}, validation(msgStaleQuote, nil)
		}
		display := swapDisplay{
			fromAmount: amount.String(),
			from:       req.From.Symbol,
			toAmount:   token.FromMinorUnits(q.OutAmount, req.To.Decimals).String(),
			to:         req.To.Symbol,
		}

		if q.IsRemote() && o.aggregator != nil {
			outcome, err := o.aggregatorSwap(ctx, r, signer, q, display)
			if err == nil {
				return outcome, nil
			}
			if errors.Is(err, wallet.ErrRejected) {
				return Outcome{}, err
			}
			r.logger.Warn("Aggregator swap failed, falling back to proxy transfer", zap.Error(err))
		}
		return o.proxySwap(ctx, r, signer, req.From, amount, display)
	})
}

type swapDisplay struct {
	fromAmount, from, toAmount, to string
}

func (o *Orchestrator) aggregatorSwap(ctx context.Context, r *run, signer transaction.Signer, q quote.Quote, d swapDisplay) (Outcome, error) {
	r.step = builder.LabelAggregator
	r.enter(StateBuilding)
	payload, err := o.aggregator.GetSwapTransaction(ctx, q, signer.PublicKey())
	if err != nil {
		return Outcome{}, err
	}
	intent, err := o.builder.AggregatorSwap(payload.Transaction, signer.PublicKey(), payload.LastValidBlockHeight)
	if err != nil {
		return Outcome{}, err
	}
	sig, err := o.send(ctx, r, signer, intent)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Message:   fmt.Sprintf("Swap successful! Swapped %s %s for %s %s.", d.fromAmount, d.from, d.toAmount, d.to),
		Signature: sig,
	}, nil
}

func (o *Orchestrator) proxySwap(ctx context.Context, r *run, signer transaction.Signer, from token.Asset, amount decimal.Decimal, d swapDisplay) (Outcome, error) {
	r.step = builder.LabelProxySwap
	if !from.IsNative() {
		return Outcome{
			Message: fmt.Sprintf("Swap simulated! Would swap %s %s to %s %s. (Demo mode - no tokens transferred)",
				d.fromAmount, d.from, d.toAmount, d.to),
			Simulated: true,
		}, nil
	}

	lamports, err := builder.ProxyTransferLamports(amount)
	if err != nil {
		return Outcome{}, validation(msgInvalidAmount, err)
	}
	if lamports == 0 {
		return Outcome{}, validation(msgInvalidAmount, errors.New("proxy transfer rounds to zero lamports"))
	}

	r.enter(StateBuilding)
	payer := signer.PublicKey()
	balance, err := o.client.GetBalance(ctx, payer)
	if err != nil {
		return Outcome{}, err
	}
	if balance < lamports+builder.ProxyFeeReserve {
		return Outcome{}, &Error{
			Category: CategoryInsufficientFunds,
			Message:  msgInsufficientSwap,
			Err:      fmt.Errorf("balance %d lamports, need %d", balance, lamports+builder.ProxyFeeReserve),
		}
	}

	intent, err := o.builder.ProxySwap(ctx, payer, lamports)
	if err != nil {
		return Outcome{}, err
	}
	sig, err := o.send(ctx, r, signer, intent)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Message: fmt.Sprintf("Demo swap completed! Simulated swapping %s %s to %s %s (small SOL fee deducted).",
			d.fromAmount, d.from, d.toAmount, d.to),
		Signature: sig,
	}, nil
}

var _ SwapSource = (*quote.JupiterClient)(nil)
