// Package mock provides a scripted in-memory ledger for tests and offline demos.
package mock

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

// Ledger implements blockchain.Client. Every call is appended to Calls so tests can
// assert ordering, or the absence of network traffic.
type Ledger struct {
	mu sync.Mutex

	Balances      map[solana.PublicKey]uint64
	TokenBalances map[solana.PublicKey]uint64
	TokenErrors   map[solana.PublicKey]error
	BalanceErr    error
	AirdropErr    error
	BlockhashErr  error

	BlockHeight uint64
	// ValidFor is added to BlockHeight to produce LastValidBlockHeight.
	ValidFor uint64
	// HeightStep advances BlockHeight on every GetBlockHeight call.
	HeightStep uint64

	// SendHook, when set, may reject the n-th (0-based) sent transaction.
	SendHook func(n int, tx *solana.Transaction) error
	// StatusHook, when set, overrides the default "confirmed" status.
	StatusHook func(sig solana.Signature) *rpc.SignatureStatusesResult

	Calls []string
	Sent  []*solana.Transaction

	airdrops uint64
}

// NewLedger returns a ledger where every sent transaction confirms immediately.
func NewLedger() *Ledger {
	return &Ledger{
		Balances:      make(map[solana.PublicKey]uint64),
		TokenBalances: make(map[solana.PublicKey]uint64),
		TokenErrors:   make(map[solana.PublicKey]error),
		BlockHeight:   1000,
		ValidFor:      150,
	}
}

func (l *Ledger) record(call string) {
	l.Calls = append(l.Calls, call)
}

// CallCount returns the number of RPC calls made so far.
func (l *Ledger) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Calls)
}

// SentTransactions returns a copy of the transactions that reached the network.
func (l *Ledger) SentTransactions() []*solana.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*solana.Transaction, len(l.Sent))
	copy(out, l.Sent)
	return out
}

// CallLog returns a copy of the recorded call names.
func (l *Ledger) CallLog() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.Calls))
	copy(out, l.Calls)
	return out
}

func (l *Ledger) SetBalance(owner solana.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Balances[owner] = lamports
}

func (l *Ledger) GetBalance(_ context.Context, owner solana.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getBalance")
	if l.BalanceErr != nil {
		return 0, l.BalanceErr
	}
	return l.Balances[owner], nil
}

func (l *Ledger) GetTokenAccountBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getTokenAccountBalance")
	if err, ok := l.TokenErrors[account]; ok {
		return 0, err
	}
	amount, ok := l.TokenBalances[account]
	if !ok {
		return 0, fmt.Errorf("Invalid param: could not find account %s", account)
	}
	return amount, nil
}

func (l *Ledger) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getMinimumBalanceForRentExemption")
	// Devnet rent: (128 + size) * 3480 * 2
	return (128 + size) * 6960, nil
}

func (l *Ledger) GetLatestBlockhash(_ context.Context) (blockchain.Blockhash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getLatestBlockhash")
	if l.BlockhashErr != nil {
		return blockchain.Blockhash{}, l.BlockhashErr
	}
	var h solana.Hash
	binary.LittleEndian.PutUint64(h[:8], l.BlockHeight+1)
	return blockchain.Blockhash{Hash: h, LastValidBlockHeight: l.BlockHeight + l.ValidFor}, nil
}

func (l *Ledger) GetBlockHeight(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getBlockHeight")
	l.BlockHeight += l.HeightStep
	return l.BlockHeight, nil
}

func (l *Ledger) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("sendTransaction")
	n := len(l.Sent)
	if l.SendHook != nil {
		if err := l.SendHook(n, tx); err != nil {
			return solana.Signature{}, err
		}
	}
	l.Sent = append(l.Sent, tx)
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, fmt.Errorf("transaction is not signed")
	}
	return tx.Signatures[0], nil
}

func (l *Ledger) GetSignatureStatus(_ context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	l.mu.Lock()
	hook := l.StatusHook
	l.record("getSignatureStatuses")
	l.mu.Unlock()
	if hook != nil {
		return hook(sig), nil
	}
	return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}, nil
}

func (l *Ledger) RequestAirdrop(_ context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("requestAirdrop")
	if l.AirdropErr != nil {
		return solana.Signature{}, l.AirdropErr
	}
	l.Balances[to] += lamports
	l.airdrops++
	var sig solana.Signature
	binary.LittleEndian.PutUint64(sig[:8], l.airdrops)
	copy(sig[8:40], to[:])
	return sig, nil
}

var _ blockchain.Client = (*Ledger)(nil)
