package repository

import (
	"context"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

func (r *UserGormRepository) FindActiveByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&u).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

func (r *UserGormRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"email":           user.Email,
		"hashed_password": user.PasswordHash,
		"active":          user.Active,
		"staff":           user.Staff,
		"admin":           user.Admin,
	})
	return affected(res)
}

func (r *UserGormRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return affected(r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", active))
}

func (r *UserGormRepository) List(ctx context.Context, f repo.UserListFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	q := r.db.WithContext(ctx).Model(&model.User{})
	if e := strings.TrimSpace(f.Email); e != "" {
		q = q.Where("email LIKE ?", "%"+e+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("id asc")
	if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PerPage).Limit(f.PerPage)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
