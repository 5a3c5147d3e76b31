package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateSlip   = errors.New("slip already used")
	ErrInvalidReceiver = errors.New("receiver account does not match")
	ErrInvalidAmount   = errors.New("transferred amount does not match")
	ErrExpiredSlip     = errors.New("slip is older than the allowed window")
	ErrExternalService = errors.New("slip verification provider unavailable")
	ErrCodeNotFound    = errors.New("code not found")
	ErrQuotaExhausted  = errors.New("code quota exhausted")
	ErrAlreadyUnlocked = errors.New("content already unlocked by this code")
	ErrInternal        = errors.New("internal error")

	// Infra-level errors surfaced by repositories
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
