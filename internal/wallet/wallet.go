// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrRejected is returned when the signing authority declines a transaction.
var ErrRejected = errors.New("user rejected the request")

// ApproveFunc decides whether a transaction may be signed. Returning false rejects it.
type ApproveFunc func(ctx context.Context, tx *solana.Transaction) bool

// Wallet представляет локальный кошелёк Solana и выступает signing authority.
type Wallet struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
	approve    ApproveFunc
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(strings.TrimSpace(privateKeyBase58))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	return fromBytes(privateKeyBytes)
}

func fromBytes(b []byte) (*Wallet, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(b))
	}
	privateKey := solana.PrivateKey(b)
	return &Wallet{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// LoadWallet reads a keypair file: either a solana-keygen JSON byte array or a
// single base58 string.
func LoadWallet(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "[") {
		var raw []byte
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			// json decodes []byte from base64 strings, so go through []int
			var ints []int
			if err := json.Unmarshal([]byte(text), &ints); err != nil {
				return nil, fmt.Errorf("failed to parse keypair JSON: %w", err)
			}
			raw = make([]byte, len(ints))
			for i, v := range ints {
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("keypair byte %d out of range", i)
				}
				raw[i] = byte(v)
			}
		}
		return fromBytes(raw)
	}
	return NewWallet(text)
}

// Generate creates a throwaway wallet, used for offline demos and tests.
func Generate() *Wallet {
	w := solana.NewWallet()
	return &Wallet{privateKey: w.PrivateKey, publicKey: w.PublicKey()}
}

// WithApproval installs an approval hook consulted before every signature.
func (w *Wallet) WithApproval(fn ApproveFunc) *Wallet {
	w.approve = fn
	return w
}

// PublicKey returns the wallet's identity.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.publicKey
}

// SignTransaction подписывает транзакцию ключом кошелька и переданными co-signers.
func (w *Wallet) SignTransaction(ctx context.Context, tx *solana.Transaction, coSigners ...solana.PrivateKey) error {
	if w.approve != nil && !w.approve(ctx, tx) {
		return ErrRejected
	}
	// aggregator payloads arrive with zeroed signature placeholders
	if allZero(tx.Signatures) {
		tx.Signatures = nil
	}
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		for i := range coSigners {
			if key.Equals(coSigners[i].PublicKey()) {
				return &coSigners[i]
			}
		}
		return nil
	})
	return err
}

func allZero(sigs []solana.Signature) bool {
	for _, s := range sigs {
		if s != (solana.Signature{}) {
			return false
		}
	}
	return true
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.publicKey.String()
}
