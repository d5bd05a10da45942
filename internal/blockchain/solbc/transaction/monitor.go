// internal/blockchain/solbc/transaction/monitor.go
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

type Monitor struct {
	client blockchain.Client
	logger *zap.Logger
	config Config
}

func NewMonitor(client blockchain.Client, logger *zap.Logger, config Config) *Monitor {
	def := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.ConfirmTimeout <= 0 {
		config.ConfirmTimeout = def.ConfirmTimeout
	}
	return &Monitor{
		client: client,
		logger: logger.Named("tx-monitor"),
		config: config,
	}
}

// checkConfirmation проверяет, подтверждена ли транзакция
func (m *Monitor) checkConfirmation(ctx context.Context, signature solana.Signature) (done bool, status ConfirmStatus, err error) {
	st, err := m.client.GetSignatureStatus(ctx, signature)
	if err != nil {
		return false, 0, fmt.Errorf("failed to get signature status: %w", err)
	}
	if st == nil {
		return false, 0, nil
	}
	if st.Err != nil {
		return true, StatusFailed, fmt.Errorf("%w: %v", ErrTransactionFailed, st.Err)
	}
	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, StatusConfirmed, nil
	}
	return false, 0, nil
}

// expired reports whether the chain has moved past the blockhash validity window.
// A zero lastValidHeight disables the check.
func (m *Monitor) expired(ctx context.Context, lastValidHeight uint64) bool {
	if lastValidHeight == 0 {
		return false
	}
	height, err := m.client.GetBlockHeight(ctx)
	if err != nil {
		m.logger.Debug("Block height check failed", zap.Error(err))
		return false
	}
	return height > lastValidHeight
}

// AwaitConfirmation polls until the signature reaches confirmed commitment, fails on
// chain, or its blockhash validity height is exceeded. It never resends anything.
func (m *Monitor) AwaitConfirmation(ctx context.Context, signature solana.Signature, lastValidHeight uint64) (ConfirmStatus, error) {
	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(m.config.ConfirmTimeout)
	defer deadline.Stop()

	for {
		done, status, err := m.checkConfirmation(ctx, signature)
		switch {
		case done:
			return status, err
		case err != nil:
			m.logger.Warn("Confirmation check failed",
				zap.String("signature", signature.String()),
				zap.Error(err))
		case m.expired(ctx, lastValidHeight):
			// the status may have landed between the two reads
			if done, status, err := m.checkConfirmation(ctx, signature); done {
				return status, err
			}
			return StatusExpired, ErrBlockhashExpired
		}

		select {
		case <-ctx.Done():
			return StatusFailed, ctx.Err()
		case <-deadline.C:
			return StatusExpired, ErrConfirmationTimeout
		case <-ticker.C:
		}
	}
}
