package ui

import (
	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
)

// Tea message types for UI communication

// SignerLoadedMsg ends the initializing phase.
type SignerLoadedMsg struct {
	Signer transaction.Signer
	Err    error
}

// OutcomeMsg carries the terminal result of an operation.
type OutcomeMsg struct {
	Outcome operation.Outcome
}

// BusyMsg is returned instead of an outcome when the action was already running.
type BusyMsg struct {
	Kind operation.Kind
}

// OperationEventMsg wraps a state transition of a running operation.
type OperationEventMsg struct {
	Event operation.Event
}

// BalanceMsg carries a fresh balance snapshot.
type BalanceMsg struct {
	Snapshot balance.Snapshot
	Err      error
}

// QuoteMsg reports a settled quote, or OK=false when the current one was cleared.
type QuoteMsg struct {
	Quote quote.Quote
	OK    bool
}

// TabReadyMsg ends the loading transition started for generation Gen.
type TabReadyMsg struct {
	Gen uint64
}

// Tab identifies a screen of the app.
type Tab int

const (
	TabAirdrop Tab = iota
	TabLaunch
	TabSwap
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabAirdrop:
		return "Airdrop"
	case TabLaunch:
		return "Launch"
	case TabSwap:
		return "Swap"
	default:
		return "unknown"
	}
}

func (t Tab) kind() operation.Kind {
	switch t {
	case TabLaunch:
		return operation.KindLaunch
	case TabSwap:
		return operation.KindSwap
	default:
		return operation.KindAirdrop
	}
}
