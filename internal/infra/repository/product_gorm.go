package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func withCatalogRelations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.id asc") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("product_tags.id asc") }).
		Preload("Features").
		Preload("Specifications")
}

// Active products, optionally restricted to ones carrying any of the tag slugs.
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Where("products.active = ?", true)

	if len(q.TagSlugs) > 0 {
		tagged := r.db.Table("product_and_tag_assoc").
			Select("product_and_tag_assoc.product_id").
			Joins("JOIN product_tags ON product_tags.id = product_and_tag_assoc.product_tag_id").
			Where("product_tags.slug IN ?", q.TagSlugs)
		tx = tx.Where("products.id IN (?)", tagged)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = withCatalogRelations(tx).Order("products.id asc")
	if q.PerPage > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Offset((page - 1) * q.PerPage).Limit(q.PerPage)
	}

	if err := tx.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := withCatalogRelations(r.db.WithContext(ctx)).Order("products.id asc").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := withCatalogRelations(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindIncludingDeleted(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&p, id).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := withCatalogRelations(r.db.WithContext(ctx)).
		Where("slug = ? AND active = ?", slug, true).
		Order("id asc").
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := withCatalogRelations(r.db.WithContext(ctx)).
		Where("id IN ? AND active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts the product, its specifications and its tag/feature links.
// The brand is referenced by BrandID only.
func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Brand").Create(p).Error)
}

// Update saves product columns and upserts specifications. Associations are
// replaced through ReplaceTags and ReplaceFeatures.
func (r *ProductGormRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Specifications != nil {
			if err := tx.Save(p.Specifications).Error; err != nil {
				return err
			}
			p.SpecificationsID = &p.Specifications.ID
		}
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":              p.Name,
			"description":       p.Description,
			"slug":              model.DeriveSlug(p.Slug, p.Name),
			"price":             p.Price,
			"in_stock":          p.InStock,
			"active":            p.Active,
			"brand_id":          p.BrandID,
			"specifications_id": p.SpecificationsID,
		})
		return affected(res)
	})
}

func (r *ProductGormRepository) ReplaceTags(ctx context.Context, productID int64, tags []model.ProductTag) error {
	return r.db.WithContext(ctx).Model(&model.Product{ID: productID}).Association("Tags").Replace(tags)
}

func (r *ProductGormRepository) ReplaceFeatures(ctx context.Context, productID int64, features []model.ProductFeature) error {
	return r.db.WithContext(ctx).Model(&model.Product{ID: productID}).Association("Features").Replace(features)
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, id))
}

// AddImage stores the image. A main image demotes the product's previous one.
func (r *ProductGormRepository) AddImage(ctx context.Context, img *model.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Product{}).Where("id = ?", img.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}
		if img.Main {
			if err := tx.Model(&model.ProductImage{}).
				Where("product_id = ?", img.ProductID).
				Update("main", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(img).Error
	})
}

func (r *ProductGormRepository) DeleteImage(ctx context.Context, productID, imageID int64) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&model.ProductImage{}))
}

func (r *ProductGormRepository) FirstOrCreate(ctx context.Context, p *model.Product) error {
	var existing model.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND price = ?", p.Name, p.Price).
		First(&existing).Error
	if err == nil {
		*p = existing
		return nil
	}
	if translate(err) != repo.ErrNotFound {
		return err
	}
	return r.Create(ctx, p)
}
