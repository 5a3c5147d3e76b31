package repository

import (
	"context"

	"video-unlock-service/internal/domain/model"
)

// ContentRepository reads the catalog slice this service needs. The catalog
// is owned elsewhere; Save exists only for seeding and tests.
type ContentRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.ContentItem, error)
	List(ctx context.Context, tx Tx) ([]*model.ContentItem, error)
	Save(ctx context.Context, tx Tx, item *model.ContentItem) error
}
