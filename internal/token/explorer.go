// internal/token/explorer.go
package token

import (
	"fmt"
	"strings"
)

// DefaultExplorer is the host used for transaction links.
const DefaultExplorer = "explorer.solana.com"

// ExplorerTxURL builds a Devnet explorer link for a transaction signature.
func ExplorerTxURL(host, signature string) string {
	if host == "" {
		host = DefaultExplorer
	}
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")
	return fmt.Sprintf("https://%s/tx/%s?cluster=devnet", host, signature)
}
