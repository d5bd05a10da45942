// internal/builder/launch.go
package builder

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/programs/token2022"
)

const (
	LaunchDecimals uint8 = 9
	SymbolWidth          = 8
	DefaultSupply uint64 = 1_000_000
	MaxSupply     uint64 = 1_000_000_000
	DefaultURI           = "https://cdn.100xdevs.com/metadata.json"

	// MinLaunchBalance is the SOL a wallet must hold before a launch is attempted.
	MinLaunchBalance uint64 = 10_000_000
)

var (
	ErrMissingNameOrSymbol = errors.New("please enter name and symbol")
	ErrSupplyOutOfRange    = errors.New("initial supply must be between 0 and 1,000,000,000")
)

// LaunchRequest is the raw user input for a token launch.
type LaunchRequest struct {
	Name   string
	Symbol string
	URI    string
	// Supply is the whole-token initial supply; empty means DefaultSupply.
	Supply string
}

// LaunchParams is a validated LaunchRequest.
type LaunchParams struct {
	Name   string
	Symbol string
	URI    string
	Supply uint64
}

// MintAmount is the supply in base units.
func (p LaunchParams) MintAmount() uint64 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(LaunchDecimals)), nil)
	return new(big.Int).Mul(new(big.Int).SetUint64(p.Supply), scale).Uint64()
}

// ValidateLaunch checks the request without touching the network.
func ValidateLaunch(req LaunchRequest) (LaunchParams, error) {
	name := strings.TrimSpace(req.Name)
	symbol := strings.TrimSpace(req.Symbol)
	if name == "" || symbol == "" {
		return LaunchParams{}, ErrMissingNameOrSymbol
	}

	supply := DefaultSupply
	if s := strings.TrimSpace(req.Supply); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 || uint64(n) > MaxSupply {
			return LaunchParams{}, fmt.Errorf("%w: %q", ErrSupplyOutOfRange, s)
		}
		supply = uint64(n)
	}

	uri := strings.TrimSpace(req.URI)
	if uri == "" {
		uri = DefaultURI
	}
	return LaunchParams{
		Name:   name,
		Symbol: PadSymbol(symbol),
		URI:    uri,
		Supply: supply,
	}, nil
}

// PadSymbol fits a symbol to the fixed metadata field width: truncated on a rune
// boundary, then right-padded with spaces.
func PadSymbol(symbol string) string {
	for len(symbol) > SymbolWidth {
		_, size := utf8.DecodeLastRuneInString(symbol)
		symbol = symbol[:len(symbol)-size]
	}
	return symbol + strings.Repeat(" ", SymbolWidth-len(symbol))
}

// CreateMint builds the first launch transaction: create the mint account, point its
// metadata at itself, initialise the mint and write the metadata. The returned mint
// key must co-sign.
func (b *Builder) CreateMint(ctx context.Context, payer solana.PublicKey, p LaunchParams) (*Intent, solana.PublicKey, error) {
	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("generate mint keypair: %w", err)
	}
	mint := mintKey.PublicKey()

	md := token2022.Metadata{
		UpdateAuthority: payer,
		Mint:            mint,
		Name:            p.Name,
		Symbol:          p.Symbol,
		URI:             p.URI,
	}
	// the account is created at mint size; metadata initialise reallocates into
	// the pre-funded rent
	space := uint64(token2022.MintLenWithMetadataPointer)
	rent, err := b.client.GetMinimumBalanceForRentExemption(ctx, space+uint64(md.TLVLen()))
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("get rent exemption: %w", err)
	}

	create := system.NewCreateAccountInstruction(rent, space, token2022.ProgramID, payer, mint).Build()
	pointer, err := token2022.NewInitializeMetadataPointerInstruction(mint, payer, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	initMint, err := token2022.NewInitializeMintInstruction(mint, LaunchDecimals, payer, nil)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	initMeta, err := token2022.NewInitializeMetadataInstruction(md, payer)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	intent, err := b.newIntent(ctx, LabelCreateMint, payer,
		[]solana.Instruction{create, pointer, initMint, initMeta}, mintKey)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	b.logger.Info("Mint prepared",
		zap.String("mint", mint.String()),
		zap.Uint64("rent_lamports", rent))
	return intent, mint, nil
}

// CreateHoldingAccount builds the second launch transaction: the payer's associated
// token account for mint.
func (b *Builder) CreateHoldingAccount(ctx context.Context, payer, mint solana.PublicKey) (*Intent, solana.PublicKey, error) {
	ix, ata, err := token2022.NewCreateAssociatedTokenAccountIdempotentInstruction(payer, payer, mint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive associated token account: %w", err)
	}
	intent, err := b.newIntent(ctx, LabelCreateATA, payer, []solana.Instruction{ix})
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	return intent, ata, nil
}

// MintSupply builds the third launch transaction.
func (b *Builder) MintSupply(ctx context.Context, payer, mint, ata solana.PublicKey, amount uint64) (*Intent, error) {
	ix, err := token2022.NewMintToInstruction(mint, ata, payer, amount)
	if err != nil {
		return nil, err
	}
	return b.newIntent(ctx, LabelMintTo, payer, []solana.Instruction{ix})
}
