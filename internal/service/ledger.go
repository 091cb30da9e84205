package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coinforge/walletd/internal/models"
	"github.com/coinforge/walletd/internal/store"
)

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrMissingIdempotencyKey = errors.New("idempotency key required")
)

// Ledger is the sole owner of the account store and the idempotency table.
// Every mutating request runs its idempotency check, balance update, history
// append and outcome recording as one critical section under mu; reads take
// the same lock so they never observe a partial write. Nothing else in the
// process touches the two tables directly.
type Ledger struct {
	mu          sync.Mutex
	accounts    *store.AccountStore
	idempotency *store.IdempotencyTable

	// now is swapped out by tests that need deterministic timestamps.
	now func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts:    store.NewAccountStore(),
		idempotency: store.NewIdempotencyTable(),
		now:         time.Now,
	}
}

// CreditParams describes one credit request. Amount is in coins, already
// converted by the caller; Metadata is kind-specific context such as a reward
// source id.
type CreditParams struct {
	UserID         string
	Amount         int64
	Kind           models.OperationKind
	Metadata       string
	IdempotencyKey string
}

// RecentOperationsLimit bounds how much history WalletView returns. Storage
// itself is unbounded; the limit applies at query time only.
const RecentOperationsLimit = 5

// Credit applies a positive balance delta to the user's wallet, atomically
// with respect to every other Credit and WalletView call on the same ledger.
// The second return is true when the idempotency key was seen before; in that
// case the outcome is the cached value from the first application and no state
// changed.
func (l *Ledger) Credit(ctx context.Context, p CreditParams) (models.CreditOutcome, bool, error) {
	if p.IdempotencyKey == "" {
		return models.CreditOutcome{}, false, ErrMissingIdempotencyKey
	}
	if p.Amount <= 0 {
		return models.CreditOutcome{}, false, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 1. Idempotency check. Must happen inside the lock: a check-then-insert
	// that releases the lock in between lets two retries of the same request
	// both pass the check and double-credit.
	if rec, ok := l.idempotency.Lookup(p.IdempotencyKey); ok {
		return rec.Outcome, true, nil
	}

	// 2. Read-modify-write on the balance.
	acc := l.accounts.GetOrCreate(p.UserID)
	newBalance := acc.Balance + p.Amount
	l.accounts.ApplyDelta(acc, p.Amount)

	now := l.now()
	l.accounts.AppendOperation(acc, models.Operation{
		Kind:           p.Kind,
		Amount:         p.Amount,
		IdempotencyKey: p.IdempotencyKey,
		Metadata:       p.Metadata,
		AppliedAt:      now,
	})

	// 3. Record the outcome for future retries of this key.
	outcome := models.CreditOutcome{
		Balance: newBalance,
		Message: fmt.Sprintf("%s successful: added %d coins, new balance %d", p.Kind, p.Amount, newBalance),
	}
	if err := l.idempotency.Record(p.IdempotencyKey, outcome, now); err != nil {
		return models.CreditOutcome{}, false, fmt.Errorf("record outcome: %w", err)
	}

	return outcome, false, nil
}

// WalletView returns the wallet's balance and its most recent operations,
// newest first, at most RecentOperationsLimit of them. A never-seen user gets
// a zero-balance view with an empty history rather than an error.
func (l *Ledger) WalletView(ctx context.Context, userID string) models.WalletView {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := models.WalletView{
		UserID:           userID,
		RecentOperations: []models.Operation{},
	}

	acc, ok := l.accounts.Get(userID)
	if !ok {
		return view
	}

	view.Balance = acc.Balance

	// Operations are appended under the lock, so history order is timestamp
	// order; walk it backwards for newest-first.
	ops := acc.Operations
	for i := len(ops) - 1; i >= 0 && len(view.RecentOperations) < RecentOperationsLimit; i-- {
		view.RecentOperations = append(view.RecentOperations, ops[i])
	}
	return view
}
