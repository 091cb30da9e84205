package store

import (
	"github.com/coinforge/walletd/internal/models"
)

// Account holds one user's balance and append-only credit history.
// Balance is denominated in coins, the ledger's smallest unit.
type Account struct {
	ID         string
	Balance    int64
	Operations []models.Operation
}

// AccountStore maps user IDs to accounts. It carries no locking of its own:
// every call must happen inside the ledger's critical section. Accounts are
// created lazily and never deleted.
type AccountStore struct {
	accounts map[string]*Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*Account)}
}

// GetOrCreate returns the account for id, creating a zero-balance account on
// first reference.
func (s *AccountStore) GetOrCreate(id string) *Account {
	if acc, ok := s.accounts[id]; ok {
		return acc
	}
	acc := &Account{ID: id}
	s.accounts[id] = acc
	return acc
}

// Get is the non-mutating lookup; the second return reports existence.
func (s *AccountStore) Get(id string) (*Account, bool) {
	acc, ok := s.accounts[id]
	return acc, ok
}

// ApplyDelta adds delta to the account balance. The caller guarantees
// delta > 0 and holds the ledger lock.
func (s *AccountStore) ApplyDelta(acc *Account, delta int64) {
	acc.Balance += delta
}

// AppendOperation records op at the end of the account's history,
// preserving insertion order.
func (s *AccountStore) AppendOperation(acc *Account, op models.Operation) {
	acc.Operations = append(acc.Operations, op)
}
