// internal/token/asset.go
package token

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Well-known Devnet mints listed by the launchpad.
var (
	NativeMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint   = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint   = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

const logoBase = "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/"

// Asset описывает поддерживаемый токен. Значения неизменяемы.
type Asset struct {
	Address  solana.PublicKey
	Symbol   string
	Name     string
	Decimals uint8
	LogoURI  string
}

// IsNative reports whether the asset is wrapped SOL, whose balance lives on the owner account.
func (a Asset) IsNative() bool {
	return a.Address.Equals(NativeMint)
}

func (a Asset) String() string {
	return a.Symbol
}

// Registry is a read-only list of supported assets.
type Registry struct {
	assets []Asset
	byAddr map[solana.PublicKey]Asset
}

// NewRegistry builds a registry; duplicate addresses or symbols are rejected.
func NewRegistry(assets ...Asset) (*Registry, error) {
	r := &Registry{
		assets: make([]Asset, 0, len(assets)),
		byAddr: make(map[solana.PublicKey]Asset, len(assets)),
	}
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		sym := strings.ToUpper(a.Symbol)
		if _, dup := r.byAddr[a.Address]; dup {
			return nil, fmt.Errorf("duplicate asset address %s", a.Address)
		}
		if seen[sym] {
			return nil, fmt.Errorf("duplicate asset symbol %s", a.Symbol)
		}
		seen[sym] = true
		r.byAddr[a.Address] = a
		r.assets = append(r.assets, a)
	}
	return r, nil
}

// DefaultRegistry returns the SOL/USDC/USDT list used on Devnet.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Asset{Address: NativeMint, Symbol: "SOL", Name: "Solana", Decimals: 9, LogoURI: logoBase + NativeMint.String() + "/logo.png"},
		Asset{Address: USDCMint, Symbol: "USDC", Name: "USD Coin", Decimals: 6, LogoURI: logoBase + USDCMint.String() + "/logo.png"},
		Asset{Address: USDTMint, Symbol: "USDT", Name: "Tether USD", Decimals: 6, LogoURI: logoBase + USDTMint.String() + "/logo.png"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the assets in registration order.
func (r *Registry) All() []Asset {
	out := make([]Asset, len(r.assets))
	copy(out, r.assets)
	return out
}

// Lookup finds an asset by mint address.
func (r *Registry) Lookup(addr solana.PublicKey) (Asset, bool) {
	a, ok := r.byAddr[addr]
	return a, ok
}

// BySymbol finds an asset by its ticker, case-insensitively.
func (r *Registry) BySymbol(symbol string) (Asset, bool) {
	for _, a := range r.assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, true
		}
	}
	return Asset{}, false
}
