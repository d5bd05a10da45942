// internal/operation/session.go
package operation

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
)

// Session carries the connected identity and the per-action re-entrancy guard. It
// is the only front-end state the orchestrator reads, passed explicitly into every
// call.
type Session struct {
	mu     sync.Mutex
	signer transaction.Signer
	busy   map[Kind]bool
}

func NewSession() *Session {
	return &Session{busy: make(map[Kind]bool)}
}

// Connect sets the signing authority. A nil signer disconnects.
func (s *Session) Connect(signer transaction.Signer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signer = signer
}

// Signer returns the connected signing authority.
func (s *Session) Signer() (transaction.Signer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signer, s.signer != nil
}

// Identity is the connected public key, zero when disconnected.
func (s *Session) Identity() solana.PublicKey {
	signer, ok := s.Signer()
	if !ok {
		return solana.PublicKey{}
	}
	return signer.PublicKey()
}

func (s *Session) acquire(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[kind] {
		return false
	}
	s.busy[kind] = true
	return true
}

func (s *Session) release(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, kind)
}
