package wallet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferTx(t *testing.T, from, to solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, from, to).Build()},
		solana.Hash{1},
		solana.TransactionPayer(from),
	)
	require.NoError(t, err)
	return tx
}

func TestNewWalletRoundTrip(t *testing.T) {
	gen := solana.NewWallet()
	w, err := NewWallet(gen.PrivateKey.String())
	require.NoError(t, err)
	assert.Equal(t, gen.PublicKey(), w.PublicKey())
	assert.Equal(t, gen.PublicKey().String(), w.String())
}

func TestNewWalletRejectsBadKeys(t *testing.T) {
	_, err := NewWallet("not-base58-0OIl")
	assert.Error(t, err)

	_, err = NewWallet("3yZe7d")
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestLoadWalletFormats(t *testing.T) {
	gen := solana.NewWallet()
	dir := t.TempDir()

	b58 := filepath.Join(dir, "key.txt")
	require.NoError(t, os.WriteFile(b58, []byte(gen.PrivateKey.String()+"\n"), 0600))
	w, err := LoadWallet(b58)
	require.NoError(t, err)
	assert.Equal(t, gen.PublicKey(), w.PublicKey())

	ints := make([]int, len(gen.PrivateKey))
	for i, b := range gen.PrivateKey {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "id.json")
	require.NoError(t, os.WriteFile(jsonPath, raw, 0600))
	w, err = LoadWallet(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, gen.PublicKey(), w.PublicKey())

	_, err = LoadWallet(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSignTransactionWithCoSigner(t *testing.T) {
	w := Generate()
	mint := solana.NewWallet()

	build := func() *solana.Transaction {
		tx, err := solana.NewTransaction(
			[]solana.Instruction{
				system.NewCreateAccountInstruction(1, 82, solana.TokenProgramID, w.PublicKey(), mint.PublicKey()).Build(),
			},
			solana.Hash{7},
			solana.TransactionPayer(w.PublicKey()),
		)
		require.NoError(t, err)
		return tx
	}

	// the mint account must co-sign
	assert.Error(t, w.SignTransaction(context.Background(), build()))

	tx := build()
	require.NoError(t, w.SignTransaction(context.Background(), tx, mint.PrivateKey))
	assert.Len(t, tx.Signatures, 2)
	require.NoError(t, tx.VerifySignatures())
}

func TestSignTransactionReplacesPlaceholders(t *testing.T) {
	w := Generate()
	tx := transferTx(t, w.PublicKey(), solana.NewWallet().PublicKey())
	tx.Signatures = make([]solana.Signature, 1)

	require.NoError(t, w.SignTransaction(context.Background(), tx))
	require.Len(t, tx.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, tx.Signatures[0])
}

func TestSignTransactionRejected(t *testing.T) {
	w := Generate().WithApproval(func(context.Context, *solana.Transaction) bool { return false })
	tx := transferTx(t, w.PublicKey(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, w.SignTransaction(context.Background(), tx), ErrRejected)
	assert.Empty(t, tx.Signatures)
}
