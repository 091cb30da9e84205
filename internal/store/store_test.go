package store

import (
	"errors"
	"testing"
	"time"

	"github.com/coinforge/walletd/internal/models"
)

func TestAccountStoreGetOrCreate(t *testing.T) {
	s := NewAccountStore()

	if _, ok := s.Get("u1"); ok {
		t.Fatalf("expected no account before first reference")
	}

	acc := s.GetOrCreate("u1")
	if acc.ID != "u1" || acc.Balance != 0 || len(acc.Operations) != 0 {
		t.Fatalf("unexpected fresh account: %+v", acc)
	}

	if again := s.GetOrCreate("u1"); again != acc {
		t.Fatalf("expected same account instance on repeat lookup")
	}
	if got, ok := s.Get("u1"); !ok || got != acc {
		t.Fatalf("Get did not return the created account")
	}
}

func TestAccountStoreApplyDeltaAccumulates(t *testing.T) {
	s := NewAccountStore()
	acc := s.GetOrCreate("u1")

	s.ApplyDelta(acc, 100)
	s.ApplyDelta(acc, 25)

	if acc.Balance != 125 {
		t.Fatalf("expected balance 125, got %d", acc.Balance)
	}
}

func TestAccountStoreAppendPreservesOrder(t *testing.T) {
	s := NewAccountStore()
	acc := s.GetOrCreate("u1")

	for _, amount := range []int64{1, 2, 3} {
		s.AppendOperation(acc, models.Operation{Kind: models.KindTopup, Amount: amount})
	}

	if len(acc.Operations) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(acc.Operations))
	}
	for i, op := range acc.Operations {
		if op.Amount != int64(i+1) {
			t.Fatalf("position %d: expected amount %d, got %d", i, i+1, op.Amount)
		}
	}
}

func TestIdempotencyTableRecordAndLookup(t *testing.T) {
	tbl := NewIdempotencyTable()

	if _, ok := tbl.Lookup("k1"); ok {
		t.Fatalf("expected no record for unseen key")
	}

	outcome := models.CreditOutcome{Balance: 100, Message: "topup successful: added 100 coins, new balance 100"}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := tbl.Record("k1", outcome, at); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	rec, ok := tbl.Lookup("k1")
	if !ok {
		t.Fatalf("expected record after write")
	}
	if rec.Key != "k1" || rec.Outcome != outcome || !rec.RecordedAt.Equal(at) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", tbl.Len())
	}
}

func TestIdempotencyTableRefusesDuplicate(t *testing.T) {
	tbl := NewIdempotencyTable()
	at := time.Now()

	first := models.CreditOutcome{Balance: 50, Message: "first"}
	if err := tbl.Record("k1", first, at); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	err := tbl.Record("k1", models.CreditOutcome{Balance: 999, Message: "second"}, at)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// The original outcome is untouched.
	rec, _ := tbl.Lookup("k1")
	if rec.Outcome != first {
		t.Fatalf("duplicate write overwrote outcome: %+v", rec.Outcome)
	}
}
