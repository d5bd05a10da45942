// internal/blockchain/blockchain.go
package blockchain

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
)

// Cluster names the only network the launchpad talks to.
const Cluster = "devnet"

// DevnetRPC is the public Devnet endpoint used when none is configured.
const DevnetRPC = "https://api.devnet.solana.com"

// ParseCommitment maps a config string to a commitment level.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch s {
	case "", "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}
