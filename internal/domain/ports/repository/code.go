package repository

import (
	"context"

	"video-unlock-service/internal/domain/model"
)

// CodeRepository is the port for unlock codes.
type CodeRepository interface {
	// Save inserts a new code. A token collision surfaces as domain.ErrInternal.
	Save(ctx context.Context, tx Tx, code *model.Code) error
	// FindByToken returns the code for a token, or domain.ErrNotFound.
	// Inside a transaction the row is locked for update.
	FindByToken(ctx context.Context, tx Tx, token string) (*model.Code, error)
	// FindWithCapacity returns the oldest code of the given quota tier that
	// still has spare capacity, or domain.ErrNotFound. The capacity check is
	// advisory; ConsumeSlot is the authoritative guard.
	FindWithCapacity(ctx context.Context, tx Tx, quota int) (*model.Code, error)
	// ConsumeSlot atomically increments used_count if and only if
	// used_count < quota, returning the remaining quota after the increment.
	// Returns domain.ErrQuotaExhausted without mutating when no capacity is left.
	ConsumeSlot(ctx context.Context, tx Tx, codeID string) (int, error)
}

// UsageRecordRepository is the port for the redemption ledger.
type UsageRecordRepository interface {
	Insert(ctx context.Context, tx Tx, rec *model.UsageRecord) error
	CountByCode(ctx context.Context, tx Tx, codeID string) (int, error)
	// ExistsForContent reports whether the code has already unlocked the
	// given content item.
	ExistsForContent(ctx context.Context, tx Tx, codeID, contentID string) (bool, error)
}
