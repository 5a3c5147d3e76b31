package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

var _ repository.ContentRepository = (*contentRepo)(nil)

type contentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) repository.ContentRepository {
	return &contentRepo{pool: pool}
}

func (r *contentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ContentItem, error) {
	const q = `SELECT id, title, price, created_at FROM content_items WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	var it model.ContentItem
	if err := row.Scan(&it.ID, &it.Title, &it.Price, &it.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &it, nil
}

func (r *contentRepo) List(ctx context.Context, tx repository.Tx) ([]*model.ContentItem, error) {
	const q = `SELECT id, title, price, created_at FROM content_items ORDER BY created_at ASC;`
	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ContentItem
	for rows.Next() {
		var it model.ContentItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Price, &it.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *contentRepo) Save(ctx context.Context, tx repository.Tx, item *model.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	const q = `
INSERT INTO content_items (id, title, price, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, price=EXCLUDED.price;
`
	_, err := execSQL(ctx, r.pool, tx, q, item.ID, item.Title, item.Price, item.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
