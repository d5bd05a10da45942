// internal/builder/intent.go
package builder

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Intent is one signable transaction: ordered instructions, the extra keys that must
// co-sign and the blockhash it was bound to at build time. Intents are never reused;
// an expired one is rebuilt from scratch.
type Intent struct {
	Label                string
	Instructions         []solana.Instruction
	CoSigners            []solana.PrivateKey
	FeePayer             solana.PublicKey
	Blockhash            solana.Hash
	LastValidBlockHeight uint64

	// prebuilt holds a transaction compiled elsewhere (aggregator payload).
	prebuilt *solana.Transaction
}

// Transaction compiles the intent into a fresh unsigned transaction.
func (i *Intent) Transaction() (*solana.Transaction, error) {
	if i.prebuilt != nil {
		return i.prebuilt, nil
	}
	tx, err := solana.NewTransaction(i.Instructions, i.Blockhash, solana.TransactionPayer(i.FeePayer))
	if err != nil {
		return nil, fmt.Errorf("compile %s transaction: %w", i.Label, err)
	}
	return tx, nil
}
