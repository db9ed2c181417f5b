package repository

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func withLines(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id asc") })
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := withLines(r.db.WithContext(ctx)).First(&o, orderID).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := withLines(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	if err := withLines(q).
		Order("id desc").
		Offset((page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status))
}
