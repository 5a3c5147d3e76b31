package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

var _ repository.ReceiptRepository = (*receiptRepo)(nil)

type receiptRepo struct {
	pool *pgxpool.Pool
}

func NewReceiptRepo(pool *pgxpool.Pool) repository.ReceiptRepository {
	return &receiptRepo{pool: pool}
}

// Insert persists a receipt. The unique constraint on slip_fingerprint is
// the ultimate guard against double-spend; the use-case precheck is only an
// optimization.
func (r *receiptRepo) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentReceipt) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}

	const q = `
INSERT INTO payment_receipts (id, code_id, slip_fingerprint, amount, evidence, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.CodeID, p.SlipFingerprint, p.Amount, p.Evidence, string(p.Status), p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateSlip
		}
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *receiptRepo) FindByFingerprint(ctx context.Context, tx repository.Tx, fingerprint string) (*model.PaymentReceipt, error) {
	const q = `
SELECT id, code_id, slip_fingerprint, amount, evidence, status, created_at
  FROM payment_receipts
 WHERE slip_fingerprint = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, fingerprint)
	if err != nil {
		return nil, err
	}

	var p model.PaymentReceipt
	var status string
	if err := row.Scan(&p.ID, &p.CodeID, &p.SlipFingerprint, &p.Amount, &p.Evidence, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.ReceiptStatus(status)
	return &p, nil
}
