package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"gorm.io/gorm"
)

type TagGormRepository struct {
	db *gorm.DB
}

func NewTagGormRepository(db *gorm.DB) *TagGormRepository {
	return &TagGormRepository{db: db}
}

func (r *TagGormRepository) ListActiveWithCounts(ctx context.Context) ([]repo.TagWithCount, error) {
	var out []repo.TagWithCount
	err := r.db.WithContext(ctx).
		Model(&model.ProductTag{}).
		Select("product_tags.*, COUNT(products.id) AS total_products").
		Joins("LEFT JOIN product_and_tag_assoc ON product_and_tag_assoc.product_tag_id = product_tags.id").
		Joins("LEFT JOIN products ON products.id = product_and_tag_assoc.product_id AND products.deleted_at IS NULL").
		Where("product_tags.active = ?", true).
		Group("product_tags.id").
		Order("product_tags.id asc").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TagGormRepository) List(ctx context.Context) ([]model.ProductTag, error) {
	var tags []model.ProductTag
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagGormRepository) FindByID(ctx context.Context, id int64) (model.ProductTag, error) {
	var t model.ProductTag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return model.ProductTag{}, translate(err)
	}
	return t, nil
}

func (r *TagGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductTag, error) {
	var tags []model.ProductTag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagGormRepository) Create(ctx context.Context, t *model.ProductTag) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TagGormRepository) Update(ctx context.Context, t *model.ProductTag) error {
	res := r.db.WithContext(ctx).Model(&model.ProductTag{}).Where("id = ?", t.ID).Updates(map[string]any{
		"name":   t.Name,
		"slug":   model.DeriveSlug(t.Slug, t.Name),
		"active": t.Active,
	})
	return affected(res)
}

// Delete removes the tag and its product links.
func (r *TagGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_and_tag_assoc WHERE product_tag_id = ?", id).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.ProductTag{}, id))
	})
}

func (r *TagGormRepository) FirstOrCreateByName(ctx context.Context, name string) (model.ProductTag, error) {
	t := model.ProductTag{}
	err := r.db.WithContext(ctx).
		Where(model.ProductTag{Name: name}).
		Attrs(model.ProductTag{Active: true}).
		FirstOrCreate(&t).Error
	if err != nil {
		return model.ProductTag{}, translate(err)
	}
	return t, nil
}

type BrandGormRepository struct {
	db *gorm.DB
}

func NewBrandGormRepository(db *gorm.DB) *BrandGormRepository {
	return &BrandGormRepository{db: db}
}

func (r *BrandGormRepository) ListWithCounts(ctx context.Context) ([]repo.BrandWithCount, error) {
	var out []repo.BrandWithCount
	err := r.db.WithContext(ctx).
		Model(&model.ProductBrand{}).
		Select("product_brands.*, COUNT(products.id) AS total_products").
		Joins("LEFT JOIN products ON products.brand_id = product_brands.id AND products.deleted_at IS NULL").
		Group("product_brands.id").
		Order("product_brands.id asc").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BrandGormRepository) FindByID(ctx context.Context, id int64) (model.ProductBrand, error) {
	var b model.ProductBrand
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.ProductBrand{}, translate(err)
	}
	return b, nil
}

func (r *BrandGormRepository) Create(ctx context.Context, b *model.ProductBrand) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BrandGormRepository) Update(ctx context.Context, b *model.ProductBrand) error {
	res := r.db.WithContext(ctx).Model(&model.ProductBrand{}).Where("id = ?", b.ID).Updates(map[string]any{
		"name":   b.Name,
		"slug":   model.DeriveSlug(b.Slug, b.Name),
		"active": b.Active,
	})
	return affected(res)
}

// Delete detaches the brand from its products before removing it.
func (r *BrandGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.ProductBrand{}, id))
	})
}

func (r *BrandGormRepository) FirstOrCreateByName(ctx context.Context, name string) (model.ProductBrand, error) {
	b := model.ProductBrand{}
	err := r.db.WithContext(ctx).
		Where(model.ProductBrand{Name: name}).
		Attrs(model.ProductBrand{Active: true}).
		FirstOrCreate(&b).Error
	if err != nil {
		return model.ProductBrand{}, translate(err)
	}
	return b, nil
}

type FeatureGormRepository struct {
	db *gorm.DB
}

func NewFeatureGormRepository(db *gorm.DB) *FeatureGormRepository {
	return &FeatureGormRepository{db: db}
}

func (r *FeatureGormRepository) List(ctx context.Context) ([]model.ProductFeature, error) {
	var features []model.ProductFeature
	if err := r.db.WithContext(ctx).Order("id asc").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *FeatureGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductFeature, error) {
	var features []model.ProductFeature
	if len(ids) == 0 {
		return features, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *FeatureGormRepository) Create(ctx context.Context, f *model.ProductFeature) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *FeatureGormRepository) Update(ctx context.Context, f *model.ProductFeature) error {
	res := r.db.WithContext(ctx).Model(&model.ProductFeature{}).Where("id = ?", f.ID).Updates(map[string]any{
		"title":       f.Title,
		"description": f.Description,
	})
	return affected(res)
}

func (r *FeatureGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_and_feature_assoc WHERE product_feature_id = ?", id).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&model.ProductFeature{}, id))
	})
}
