// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Blockhash is a recent blockhash together with the last block height at which a
// transaction referencing it is still accepted.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Client определяет интерфейс Ledger RPC, который нужен оркестратору.
type Client interface {
	// Баланс аккаунта в лампортах.
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	// Баланс токен-аккаунта в минимальных единицах.
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// Минимум лампортов для rent-exempt аккаунта заданного размера.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	// Последний blockhash и высота, до которой он действителен.
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)
	// Текущая высота блока.
	GetBlockHeight(ctx context.Context) (uint64, error)
	// Отправить подписанную транзакцию.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// Статус подписи; nil, если сеть её ещё не видела.
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error)
	// Запросить airdrop с Devnet faucet.
	RequestAirdrop(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error)
}
