// internal/blockchain/solbc/transaction/types.go
package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrConfirmationTimeout = errors.New("transaction confirmation timeout")
	ErrBlockhashExpired    = errors.New("blockhash expired before confirmation")
	ErrTransactionFailed   = errors.New("transaction failed on chain")
	ErrInvalidSignature    = errors.New("invalid transaction signature")
	ErrInvalidBlockhash    = errors.New("invalid blockhash")
	ErrInvalidInstruction  = errors.New("invalid instruction")
	ErrInvalidFeePayer     = errors.New("fee payer is not the signing identity")
)

// ConfirmStatus is the terminal result of waiting on a signature.
type ConfirmStatus int

const (
	StatusConfirmed ConfirmStatus = iota
	StatusExpired
	StatusFailed
)

func (s ConfirmStatus) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusExpired:
		return "expired"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Signer is the identity's signing authority. Implementations may refuse to sign;
// a refusal must be reported as an error the orchestrator can recognise.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction, coSigners ...solana.PrivateKey) error
}

type Config struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

// DefaultConfig mirrors the polling cadence used against public RPC nodes.
func DefaultConfig() Config {
	return Config{
		PollInterval:   500 * time.Millisecond,
		ConfirmTimeout: 90 * time.Second,
	}
}
