package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

// ProductListQuery filters the public listing. PerPage 0 returns every row.
type ProductListQuery struct {
	Page     int
	PerPage  int
	TagSlugs []string
}

type ProductRepository interface {
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// ListAll returns every present product, active or not, with relations loaded.
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// FindIncludingDeleted also returns soft-deleted rows.
	FindIncludingDeleted(ctx context.Context, id int64) (model.Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (model.Product, error)
	FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	ReplaceTags(ctx context.Context, productID int64, tags []model.ProductTag) error
	ReplaceFeatures(ctx context.Context, productID int64, features []model.ProductFeature) error
	SoftDelete(ctx context.Context, id int64) error

	AddImage(ctx context.Context, img *model.ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID int64) error

	// FirstOrCreate matches on name and price.
	FirstOrCreate(ctx context.Context, p *model.Product) error
}
