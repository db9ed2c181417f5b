package repository

import (
	"context"

	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts    *CartGormRepository
	orders   *OrderGormRepository
	products *ProductGormRepository
	users    *UserGormRepository
}

func (r *txReposGorm) Carts() repo.CartRepository         { return r.carts }
func (r *txReposGorm) CartLines() repo.CartLineRepository { return r.carts }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }
func (r *txReposGorm) Products() repo.ProductRepository   { return r.products }
func (r *txReposGorm) Users() repo.UserRepository         { return r.users }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repositories are rebuilt on the transaction handle
		return fn(&txReposGorm{
			carts:    NewCartGormRepository(tx),
			orders:   NewOrderGormRepository(tx),
			products: NewProductGormRepository(tx),
			users:    NewUserGormRepository(tx),
		})
	})
}

var (
	_ repo.ProductRepository  = (*ProductGormRepository)(nil)
	_ repo.TagRepository      = (*TagGormRepository)(nil)
	_ repo.BrandRepository    = (*BrandGormRepository)(nil)
	_ repo.FeatureRepository  = (*FeatureGormRepository)(nil)
	_ repo.UserRepository     = (*UserGormRepository)(nil)
	_ repo.CartRepository     = (*CartGormRepository)(nil)
	_ repo.CartLineRepository = (*CartGormRepository)(nil)
	_ repo.OrderRepository    = (*OrderGormRepository)(nil)
	_ repo.TransactionManager = (*TxManagerGorm)(nil)
)
