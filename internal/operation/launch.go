// internal/operation/launch.go
package operation

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
)

// LaunchToken creates a Token-2022 mint with on-chain metadata, the caller's holding
// account and the initial supply, as three transactions each waiting on the previous
// confirmation. Nothing is rolled back: a failure after the mint exists reports the
// addresses already created.
func (o *Orchestrator) LaunchToken(ctx context.Context, s *Session, req builder.LaunchRequest) (Outcome, error) {
	return o.execute(ctx, s, KindLaunch, msgConnectWallet, func(ctx context.Context, r *run, signer transaction.Signer) (Outcome, error) {
		params, err := builder.ValidateLaunch(req)
		switch {
		case errors.Is(err, builder.ErrMissingNameOrSymbol):
			return Outcome{}, validation(msgMissingNameSymbol, err)
		case errors.Is(err, builder.ErrSupplyOutOfRange):
			return Outcome{}, validation(msgSupplyRange, err)
		case err != nil:
			return Outcome{}, validation(msgLaunchFailed, err)
		}

		payer := signer.PublicKey()
		lamports, err := o.client.GetBalance(ctx, payer)
		if err != nil {
			return Outcome{}, err
		}
		if lamports < builder.MinLaunchBalance {
			return Outcome{}, &Error{
				Category: CategoryInsufficientFunds,
				Message:  msgLaunchMinBalance,
				Err:      fmt.Errorf("balance %d lamports below %d", lamports, builder.MinLaunchBalance),
			}
		}

		r.step = builder.LabelCreateMint
		r.enter(StateBuilding)
		intent, mint, err := o.builder.CreateMint(ctx, payer, params)
		if err != nil {
			return Outcome{}, err
		}
		if _, err := o.send(ctx, r, signer, intent); err != nil {
			return Outcome{}, err
		}
		r.logger.Info("Mint created", zap.String("mint", mint.String()))

		r.step = builder.LabelCreateATA
		r.enter(StateBuilding)
		intent, ata, err := o.builder.CreateHoldingAccount(ctx, payer, mint)
		if err == nil {
			_, err = o.send(ctx, r, signer, intent)
		}
		if err != nil {
			return Outcome{}, o.partial(r.kind, mint, solana.PublicKey{}, "the token account could not be created", err)
		}

		r.step = builder.LabelMintTo
		r.enter(StateBuilding)
		intent, err = o.builder.MintSupply(ctx, payer, mint, ata, params.MintAmount())
		var sig solana.Signature
		if err == nil {
			sig, err = o.send(ctx, r, signer, intent)
		}
		if err != nil {
			return Outcome{}, o.partial(r.kind, mint, ata, "the initial supply could not be minted", err)
		}

		return Outcome{
			Message:   fmt.Sprintf("Token \"%s\" created successfully! Mint: %s", params.Name, mint),
			Signature: sig,
			Mint:      mint,
		}, nil
	})
}

// partial reports a launch that stopped after the mint was confirmed.
func (o *Orchestrator) partial(kind Kind, mint, ata solana.PublicKey, what string, cause error) *Error {
	reason := o.classifier.classify(kind, cause)
	msg := fmt.Sprintf("Token mint %s was created, but %s: %s", mint, what, reason.Message)
	if ata != (solana.PublicKey{}) {
		msg += fmt.Sprintf(" Token account: %s.", ata)
	}
	msg += " No further transactions were sent."
	return &Error{
		Category: CategoryPartialSequence,
		Message:  msg,
		Mint:     mint,
		Err:      cause,
	}
}
