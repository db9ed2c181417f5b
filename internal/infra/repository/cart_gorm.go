package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartGormRepository implements both CartRepository and CartLineRepository.
type CartGormRepository struct {
	db *gorm.DB
}

func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) Create(ctx context.Context, cart *model.Cart) error {
	return translate(r.db.WithContext(ctx).Create(cart).Error)
}

func (r *CartGormRepository) FindOpenByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id asc") }).
		Preload("Lines.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Lines.Product.Brand").
		Preload("Lines.Product.Images").
		Where("id = ? AND status = ?", cartID, model.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

func (r *CartGormRepository) LockOpenByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", cartID, model.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

func (r *CartGormRepository) FindLatestOpenByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.CartStatusOpen).
		Order("id desc").
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

func (r *CartGormRepository) SetOwner(ctx context.Context, cartID, userID int64) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("user_id", userID))
}

func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status))
}

func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *CartGormRepository) FindForUpdate(ctx context.Context, cartID, productID int64) (model.CartLine, error) {
	var line model.CartLine
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&line).Error
	if err != nil {
		return model.CartLine{}, translate(err)
	}
	return line, nil
}

func (r *CartGormRepository) FindInCart(ctx context.Context, cartID, lineID int64) (model.CartLine, error) {
	var line model.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		First(&line).Error
	if err != nil {
		return model.CartLine{}, translate(err)
	}
	return line, nil
}

func (r *CartGormRepository) AddLine(ctx context.Context, line *model.CartLine) error {
	return translate(r.db.WithContext(ctx).Omit("Product").Create(line).Error)
}

func (r *CartGormRepository) UpdateQuantity(ctx context.Context, lineID, qty int64) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty))
}

func (r *CartGormRepository) MoveToCart(ctx context.Context, lineID, cartID int64) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("cart_id", cartID))
}

func (r *CartGormRepository) DeleteLine(ctx context.Context, lineID int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.CartLine{}, lineID))
}
