package store

import "errors"

var ErrDuplicateKey = errors.New("idempotency key already recorded")
