package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/repository"
)

var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase exposes the read-only catalog slice plus Create for seeding.
// The catalog itself is owned by an external collaborator; this service only
// reads id/title/price.
type CatalogUseCase interface {
	List(ctx context.Context) ([]*model.ContentItem, error)
	Get(ctx context.Context, id string) (*model.ContentItem, error)
	Create(ctx context.Context, title string, price float64) (*model.ContentItem, error)
}

type catalogUC struct {
	contents repository.ContentRepository
}

func NewCatalogUseCase(contents repository.ContentRepository) *catalogUC {
	return &catalogUC{contents: contents}
}

func (u *catalogUC) List(ctx context.Context) ([]*model.ContentItem, error) {
	return u.contents.List(ctx, nil)
}

func (u *catalogUC) Get(ctx context.Context, id string) (*model.ContentItem, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.contents.FindByID(ctx, nil, id)
}

func (u *catalogUC) Create(ctx context.Context, title string, price float64) (*model.ContentItem, error) {
	if price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	item := &model.ContentItem{
		ID:        uuid.NewString(),
		Title:     title,
		Price:     price,
		CreatedAt: time.Now(),
	}
	if err := u.contents.Save(ctx, nil, item); err != nil {
		return nil, err
	}
	return item, nil
}
