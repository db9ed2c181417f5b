package model

import "time"

type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusClosed CartStatus = "CLOSED"
)

// Carts may be anonymous. A user is expected to hold at most one OPEN cart.
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Status    CartStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	UserID    *int64     `gorm:"index" json:"user_id"`
	Lines     []CartLine `gorm:"constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"date_created"`
}

func (c Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}
