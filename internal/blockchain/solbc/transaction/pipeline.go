// internal/blockchain/solbc/transaction/pipeline.go
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

// Pipeline hands transactions to the signing authority, forwards them to the
// network and waits for confirmation. It performs no retries: a failed or expired
// transaction is reported to the caller, which decides whether to rebuild.
type Pipeline struct {
	client    blockchain.Client
	logger    *zap.Logger
	validator *Validator
	monitor   *Monitor
	metrics   *Metrics
}

func NewPipeline(client blockchain.Client, logger *zap.Logger, config Config, metrics *Metrics) *Pipeline {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Pipeline{
		client:    client,
		logger:    logger.Named("tx-pipeline"),
		validator: NewValidator(logger),
		monitor:   NewMonitor(client, logger, config),
		metrics:   metrics,
	}
}

// Submit signs tx with signer (plus any co-signers) and sends it.
func (p *Pipeline) Submit(ctx context.Context, tx *solana.Transaction, signer Signer, coSigners ...solana.PrivateKey) (solana.Signature, error) {
	if err := p.validator.ValidateUnsigned(tx, signer.PublicKey()); err != nil {
		p.logger.Error("Transaction validation failed", zap.Error(err))
		return solana.Signature{}, err
	}

	if err := signer.SignTransaction(ctx, tx, coSigners...); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := p.validator.ValidateSigned(tx); err != nil {
		p.logger.Error("Signed transaction is incomplete", zap.Error(err))
		return solana.Signature{}, err
	}

	sig, err := p.client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	p.metrics.TrackSubmitted()
	p.logger.Debug("Transaction sent", zap.String("signature", sig.String()))
	return sig, nil
}

// Confirm waits for sig until it is confirmed, fails, or lastValidHeight passes.
func (p *Pipeline) Confirm(ctx context.Context, sig solana.Signature, lastValidHeight uint64) (ConfirmStatus, error) {
	start := time.Now()
	status, err := p.monitor.AwaitConfirmation(ctx, sig, lastValidHeight)
	p.metrics.TrackOutcome(status, start)

	fields := []zap.Field{
		zap.String("signature", sig.String()),
		zap.Stringer("status", status),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		p.logger.Warn("Transaction not confirmed", append(fields, zap.Error(err))...)
	} else {
		p.logger.Info("Transaction confirmed", fields...)
	}
	return status, err
}
