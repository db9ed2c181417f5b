package repository

import (
	"context"
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, gdb *gorm.DB, name string, price string, active bool) model.Product {
	t.Helper()
	p := model.Product{
		Name:    name,
		Price:   decimal.RequireFromString(price),
		InStock: true,
		Active:  active,
	}
	require.NoError(t, NewProductGormRepository(gdb).Create(context.Background(), &p))
	return p
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, active bool) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Active: active}
	require.NoError(t, NewUserGormRepository(gdb).Create(context.Background(), &u))
	return u
}
