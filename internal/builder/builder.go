// internal/builder/builder.go
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/programs/computebudget"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// Labels of the intents the builder produces.
const (
	LabelCreateMint = "create-mint"
	LabelCreateATA  = "create-ata"
	LabelMintTo     = "mint-to"
	LabelProxySwap  = "proxy-swap"
	LabelAggregator = "aggregator-swap"
)

// ProxySink receives the demonstration transfer that stands in for a swap.
var ProxySink = solana.MustPublicKeyFromBase58("11111111111111111111111111111112")

// ProxyFraction is the share of the requested amount moved by a proxy swap.
var ProxyFraction = decimal.RequireFromString("0.01")

// ProxyFeeReserve is the fee headroom required on top of the proxy transfer.
const ProxyFeeReserve uint64 = 10_000

var ErrInvalidAirdropAmount = errors.New("enter a valid SOL amount")

// Builder assembles intents. It only reads from the ledger: blockhash, rent.
type Builder struct {
	client blockchain.Client
	logger *zap.Logger
	budget computebudget.Config
}

func New(client blockchain.Client, logger *zap.Logger, budget computebudget.Config) *Builder {
	return &Builder{
		client: client,
		logger: logger.Named("builder"),
		budget: budget,
	}
}

// AirdropLamports validates a faucet request and converts it to lamports.
func AirdropLamports(amountText string) (uint64, error) {
	amount, err := token.ParseAmount(amountText)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAirdropAmount, err)
	}
	lamports, err := token.ToMinorUnits(amount, 9)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAirdropAmount, err)
	}
	if lamports == 0 {
		return 0, fmt.Errorf("%w: below one lamport", ErrInvalidAirdropAmount)
	}
	return lamports, nil
}

// ProxyTransferLamports is floor(amount * 1e9 * 0.01).
func ProxyTransferLamports(amount decimal.Decimal) (uint64, error) {
	return token.ToMinorUnits(amount.Mul(ProxyFraction), 9)
}

// newIntent binds instructions to a blockhash fetched right now.
func (b *Builder) newIntent(ctx context.Context, label string, payer solana.PublicKey, ixs []solana.Instruction, coSigners ...solana.PrivateKey) (*Intent, error) {
	budget, err := computebudget.Instructions(b.budget)
	if err != nil {
		return nil, err
	}
	bh, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	b.logger.Debug("Intent built",
		zap.String("label", label),
		zap.Int("instructions", len(ixs)),
		zap.Uint64("last_valid_height", bh.LastValidBlockHeight))
	return &Intent{
		Label:                label,
		Instructions:         append(budget, ixs...),
		CoSigners:            coSigners,
		FeePayer:             payer,
		Blockhash:            bh.Hash,
		LastValidBlockHeight: bh.LastValidBlockHeight,
	}, nil
}

// ProxySwap builds the transfer that stands in for a swap of a SOL-denominated amount.
func (b *Builder) ProxySwap(ctx context.Context, payer solana.PublicKey, lamports uint64) (*Intent, error) {
	ix := system.NewTransferInstruction(lamports, payer, ProxySink).Build()
	return b.newIntent(ctx, LabelProxySwap, payer, []solana.Instruction{ix})
}

// AggregatorSwap wraps a transaction compiled by the aggregator. Its blockhash is the
// aggregator's; only the signature is added later.
func (b *Builder) AggregatorSwap(tx *solana.Transaction, payer solana.PublicKey, lastValidHeight uint64) (*Intent, error) {
	if tx == nil {
		return nil, errors.New("aggregator returned no transaction")
	}
	return &Intent{
		Label:                LabelAggregator,
		FeePayer:             payer,
		Blockhash:            tx.Message.RecentBlockhash,
		LastValidBlockHeight: lastValidHeight,
		prebuilt:             tx,
	}, nil
}
