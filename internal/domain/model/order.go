package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusComplete OrderStatus = "COMPLETE"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusNew || s == OrderStatusComplete
}

// Order is immutable after checkout apart from its status.
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Status    OrderStatus     `gorm:"type:varchar(10);not null;index" json:"status"`
	Billing   Address         `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	Shipping  Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Contact   string          `gorm:"type:varchar(150);not null" json:"contact"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	UserID    *int64          `gorm:"index" json:"user_id"`
	Lines     []OrderLine     `gorm:"constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time       `gorm:"not null;index" json:"date_created"`
}
