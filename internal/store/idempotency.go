package store

import (
	"time"

	"github.com/coinforge/walletd/internal/models"
)

// IdempotencyRecord is the cached outcome of the first request that used a key.
// Created exactly once, never updated, never expired: its presence is the
// single source of truth for "this request was already applied".
type IdempotencyRecord struct {
	Key        string
	Outcome    models.CreditOutcome
	RecordedAt time.Time
}

// IdempotencyTable maps idempotency keys to recorded outcomes. Like
// AccountStore it relies on the ledger's critical section for synchronization.
type IdempotencyTable struct {
	records map[string]IdempotencyRecord
}

func NewIdempotencyTable() *IdempotencyTable {
	return &IdempotencyTable{records: make(map[string]IdempotencyRecord)}
}

// Lookup returns the record for key if one was ever written.
func (t *IdempotencyTable) Lookup(key string) (IdempotencyRecord, bool) {
	rec, ok := t.records[key]
	return rec, ok
}

// Record writes the outcome for a key seen for the first time. The ledger
// checks the key before mutating, so an existing entry here means a logic bug
// upstream; the write is refused rather than silently overwriting the cached
// outcome.
func (t *IdempotencyTable) Record(key string, outcome models.CreditOutcome, at time.Time) error {
	if _, ok := t.records[key]; ok {
		return ErrDuplicateKey
	}
	t.records[key] = IdempotencyRecord{Key: key, Outcome: outcome, RecordedAt: at}
	return nil
}

// Len reports the number of keys ever recorded. The table is unbounded: keys
// are never evicted, since evicting one would re-open the duplicate-credit
// window for a late retry.
func (t *IdempotencyTable) Len() int {
	return len(t.records)
}
