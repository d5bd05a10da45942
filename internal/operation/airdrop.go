// internal/operation/airdrop.go
package operation

import (
	"context"
	"fmt"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// Airdrop requests amountText SOL from the Devnet faucet and waits for it to confirm.
func (o *Orchestrator) Airdrop(ctx context.Context, s *Session, amountText string) (Outcome, error) {
	return o.execute(ctx, s, KindAirdrop, msgConnectWallet, func(ctx context.Context, r *run, signer transaction.Signer) (Outcome, error) {
		lamports, err := builder.AirdropLamports(amountText)
		if err != nil {
			return Outcome{}, validation(msgInvalidSOLAmount, err)
		}

		// the faucet transaction carries its own blockhash; a fresh one bounds the wait
		r.step = "airdrop"
		r.enter(StateBuilding)
		bh, err := o.client.GetLatestBlockhash(ctx)
		if err != nil {
			return Outcome{}, err
		}

		r.enter(StateSubmitting)
		sig, err := o.client.RequestAirdrop(ctx, signer.PublicKey(), lamports)
		if err != nil {
			return Outcome{}, err
		}

		r.enter(StateConfirming)
		if _, err := o.pipeline.Confirm(ctx, sig, bh.LastValidBlockHeight); err != nil {
			return Outcome{}, err
		}

		sol := token.FromMinorUnits(lamports, 9)
		return Outcome{
			Message:   fmt.Sprintf("Airdropped %s SOL successfully.", sol.String()),
			Signature: sig,
		}, nil
	})
}
