// internal/balance/amount.go
package balance

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Amount is a holding that is either known or could not be read. A missing token
// account is a known zero, not an unknown.
type Amount struct {
	value decimal.Decimal
	err   error
	known bool
}

func Known(v decimal.Decimal) Amount {
	return Amount{value: v, known: true}
}

func Unknown(err error) Amount {
	return Amount{err: err}
}

func (a Amount) IsKnown() bool {
	return a.known
}

// Value collapses Unknown to zero for display.
func (a Amount) Value() decimal.Decimal {
	if !a.known {
		return decimal.Zero
	}
	return a.value
}

// Err is the read failure behind an Unknown amount.
func (a Amount) Err() error {
	return a.err
}

// String renders the amount with up to four fractional digits, "?" when unknown.
func (a Amount) String() string {
	if !a.known {
		return "?"
	}
	return a.value.Truncate(4).String()
}

// Snapshot is one complete read of an identity's holdings. Never mutated after
// construction.
type Snapshot struct {
	Owner     solana.PublicKey
	FetchedAt time.Time
	amounts   map[solana.PublicKey]Amount
}

func NewSnapshot(owner solana.PublicKey, fetchedAt time.Time, amounts map[solana.PublicKey]Amount) Snapshot {
	return Snapshot{Owner: owner, FetchedAt: fetchedAt, amounts: amounts}
}

// Get returns the amount for mint; assets absent from the snapshot are Unknown.
func (s Snapshot) Get(mint solana.PublicKey) Amount {
	if a, ok := s.amounts[mint]; ok {
		return a
	}
	return Unknown(nil)
}

// Len is the number of assets in the snapshot.
func (s Snapshot) Len() int {
	return len(s.amounts)
}
