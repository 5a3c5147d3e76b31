package repository

import (
	"context"

	"video-unlock-service/internal/domain/model"
)

// ReceiptRepository is the port for payment receipts.
type ReceiptRepository interface {
	// Insert persists a receipt. The slip fingerprint carries a database
	// uniqueness constraint; violating it surfaces as domain.ErrDuplicateSlip.
	Insert(ctx context.Context, tx Tx, r *model.PaymentReceipt) error
	// FindByFingerprint returns the receipt for a fingerprint, or
	// domain.ErrNotFound.
	FindByFingerprint(ctx context.Context, tx Tx, fingerprint string) (*model.PaymentReceipt, error)
}
