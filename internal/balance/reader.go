// internal/balance/reader.go
package balance

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// Reader reads holdings for every asset in the registry.
type Reader struct {
	client blockchain.Client
	assets []token.Asset
	logger *zap.Logger
}

func NewReader(client blockchain.Client, registry *token.Registry, logger *zap.Logger) *Reader {
	return &Reader{
		client: client,
		assets: registry.All(),
		logger: logger.Named("balance-reader"),
	}
}

// Refresh reads all assets concurrently. A failing asset becomes Unknown and never
// aborts the others; only a cancelled ctx returns an error.
func (r *Reader) Refresh(ctx context.Context, owner solana.PublicKey) (Snapshot, error) {
	var (
		mu      sync.Mutex
		amounts = make(map[solana.PublicKey]Amount, len(r.assets))
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, asset := range r.assets {
		asset := asset
		g.Go(func() error {
			a := r.read(gCtx, owner, asset)
			mu.Lock()
			amounts[asset.Address] = a
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(owner, time.Now(), amounts), nil
}

func (r *Reader) read(ctx context.Context, owner solana.PublicKey, asset token.Asset) Amount {
	if asset.IsNative() {
		lamports, err := r.client.GetBalance(ctx, owner)
		if err != nil {
			r.logger.Warn("SOL balance read failed", zap.Error(err))
			return Unknown(err)
		}
		return Known(token.FromMinorUnits(lamports, asset.Decimals))
	}

	ata, _, err := solana.FindAssociatedTokenAddress(owner, asset.Address)
	if err != nil {
		return Unknown(err)
	}
	units, err := r.client.GetTokenAccountBalance(ctx, ata)
	if err != nil {
		if solbc.IsAccountNotFoundError(err) {
			return Known(token.FromMinorUnits(0, asset.Decimals))
		}
		r.logger.Warn("Token balance read failed",
			zap.String("asset", asset.Symbol),
			zap.String("account", ata.String()),
			zap.Error(err))
		return Unknown(err)
	}
	return Known(token.FromMinorUnits(units, asset.Decimals))
}
