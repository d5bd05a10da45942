// internal/operation/state.go
package operation

import (
	"github.com/gagliardetto/solana-go"
)

// Kind is the user action an operation performs.
type Kind string

const (
	KindAirdrop Kind = "airdrop"
	KindLaunch  Kind = "launch"
	KindSwap    Kind = "swap"
)

// State is a step of the per-operation state machine.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateBuilding
	StateSubmitting
	StateConfirming
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateBuilding:
		return "building"
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the user-facing result of one operation.
type Outcome struct {
	Kind        Kind
	Status      Status
	Category    Category
	Message     string
	Signature   solana.Signature
	Mint        solana.PublicKey
	ExplorerURL string
	// ClearInputs tells the form owner to reset the fields of this action.
	ClearInputs bool
	// Simulated is set when a swap completed without sending a transaction.
	Simulated bool
}

func (o Outcome) HasSignature() bool {
	return o.Signature != (solana.Signature{})
}

// Event is published on every state transition.
type Event struct {
	Kind          Kind
	State         State
	Step          string
	CorrelationID string
}

// Observer receives state transitions. It is called on the operation's goroutine
// and must not block.
type Observer func(Event)
