package utils

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPackageNotFound     = errors.New("credit package not found")

	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidAmount    = errors.New("invalid amount")

	ErrInsufficientCredits = errors.New("insufficient credits")

	// Returned when an idempotency guard observed the event was already
	// applied; callers acknowledge without re-mutating the ledger.
	ErrAlreadyProcessed = errors.New("event already processed")

	ErrDatabaseError = errors.New("database error")
)
