package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.CodeRepository = (*codeRepo)(nil)

type codeRepo struct {
	pool *pgxpool.Pool
}

func NewCodeRepo(pool *pgxpool.Pool) repository.CodeRepository {
	return &codeRepo{pool: pool}
}

func (r *codeRepo) Save(ctx context.Context, tx repository.Tx, code *model.Code) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	const q = `
INSERT INTO codes (id, token, quota, used_count, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := execSQL(ctx, r.pool, tx, q, code.ID, code.Token, code.Quota, code.UsedCount, code.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Token collision. With tokens derived from 128-bit randomness this
			// is not expected in practice; surface it rather than retry forever.
			return domain.ErrInternal
		}
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *codeRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.Code, error) {
	q := `SELECT id, token, quota, used_count, created_at FROM codes WHERE token=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, token)
	if err != nil {
		return nil, err
	}

	var c model.Code
	if err := row.Scan(&c.ID, &c.Token, &c.Quota, &c.UsedCount, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

// FindWithCapacity picks the oldest code of the tier that still has room.
// Oldest-first bounds the number of simultaneously live partially-used codes.
func (r *codeRepo) FindWithCapacity(ctx context.Context, tx repository.Tx, quota int) (*model.Code, error) {
	q := `
SELECT id, token, quota, used_count, created_at
  FROM codes
 WHERE quota = $1 AND used_count < quota
 ORDER BY created_at ASC
 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, quota)
	if err != nil {
		return nil, err
	}

	var c model.Code
	if err := row.Scan(&c.ID, &c.Token, &c.Quota, &c.UsedCount, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

// ConsumeSlot is the single authoritative guard on quota: the conditional
// update either claims one slot and reports the new remainder, or touches
// nothing. Two concurrent calls on a code with one slot left produce exactly
// one success.
func (r *codeRepo) ConsumeSlot(ctx context.Context, tx repository.Tx, codeID string) (int, error) {
	const q = `
UPDATE codes
   SET used_count = used_count + 1
 WHERE id = $1 AND used_count < quota
RETURNING quota - used_count;
`
	row, err := pickRow(ctx, r.pool, tx, q, codeID)
	if err != nil {
		return 0, err
	}

	var remaining int
	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrQuotaExhausted
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return remaining, nil
}
