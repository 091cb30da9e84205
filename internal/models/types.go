package models

import "time"

// OperationKind tags the origin of a credit.
type OperationKind string

const (
	KindTopup  OperationKind = "topup"
	KindReward OperationKind = "reward"
)

// Operation is one applied credit in a wallet's history. Immutable once appended.
type Operation struct {
	Kind           OperationKind `json:"kind"`
	Amount         int64         `json:"amount"`
	IdempotencyKey string        `json:"idempotency_key"`
	Metadata       string        `json:"metadata,omitempty"`
	AppliedAt      time.Time     `json:"applied_at"`
}

// CreditOutcome is the result of a credit request. It is cached verbatim in the
// idempotency table, so a retried request gets back the exact value the first
// attempt produced.
type CreditOutcome struct {
	Balance int64  `json:"balance"`
	Message string `json:"message"`
}

// WalletView is the read-side snapshot of a wallet.
type WalletView struct {
	UserID           string      `json:"user_id"`
	Balance          int64       `json:"balance"`
	RecentOperations []Operation `json:"recent_operations"`
}

// TopupRequest is the payload from the client. AmountUSD is converted to whole
// coins (1:1, truncating toward zero) at the API boundary.
type TopupRequest struct {
	UserID    string  `json:"user_id"`
	AmountUSD float64 `json:"amount_usd"`
}

// RewardRequest credits coins earned in a game. RewardID identifies the reward
// source and travels as operation metadata, opaque to the ledger.
type RewardRequest struct {
	UserID   string `json:"user_id"`
	Amount   int64  `json:"amount"`
	RewardID string `json:"reward_id"`
}
