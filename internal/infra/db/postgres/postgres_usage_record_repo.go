package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

var _ repository.UsageRecordRepository = (*usageRecordRepo)(nil)

type usageRecordRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRecordRepo(pool *pgxpool.Pool) repository.UsageRecordRepository {
	return &usageRecordRepo{pool: pool}
}

func (r *usageRecordRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.UsageRecord) error {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	const q = `
INSERT INTO usage_records (id, code_id, content_id, created_at)
VALUES ($1, $2, $3, $4);
`
	_, err := execSQL(ctx, r.pool, tx, q, rec.ID, rec.CodeID, rec.ContentID, rec.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *usageRecordRepo) CountByCode(ctx context.Context, tx repository.Tx, codeID string) (int, error) {
	const q = `SELECT COUNT(*) FROM usage_records WHERE code_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, codeID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *usageRecordRepo) ExistsForContent(ctx context.Context, tx repository.Tx, codeID, contentID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM usage_records WHERE code_id=$1 AND content_id=$2);`
	row, err := pickRow(ctx, r.pool, tx, q, codeID, contentID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
