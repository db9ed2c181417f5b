package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

// TagWithCount is a tag with the number of products carrying it.
type TagWithCount struct {
	model.ProductTag
	TotalProducts int64 `json:"total_products"`
}

type BrandWithCount struct {
	model.ProductBrand
	TotalProducts int64 `json:"total_products"`
}

type TagRepository interface {
	ListActiveWithCounts(ctx context.Context) ([]TagWithCount, error)
	List(ctx context.Context) ([]model.ProductTag, error)
	FindByID(ctx context.Context, id int64) (model.ProductTag, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ProductTag, error)
	Create(ctx context.Context, t *model.ProductTag) error
	Update(ctx context.Context, t *model.ProductTag) error
	Delete(ctx context.Context, id int64) error
	FirstOrCreateByName(ctx context.Context, name string) (model.ProductTag, error)
}

type BrandRepository interface {
	ListWithCounts(ctx context.Context) ([]BrandWithCount, error)
	FindByID(ctx context.Context, id int64) (model.ProductBrand, error)
	Create(ctx context.Context, b *model.ProductBrand) error
	Update(ctx context.Context, b *model.ProductBrand) error
	Delete(ctx context.Context, id int64) error
	FirstOrCreateByName(ctx context.Context, name string) (model.ProductBrand, error)
}

type FeatureRepository interface {
	List(ctx context.Context) ([]model.ProductFeature, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ProductFeature, error)
	Create(ctx context.Context, f *model.ProductFeature) error
	Update(ctx context.Context, f *model.ProductFeature) error
	Delete(ctx context.Context, id int64) error
}
