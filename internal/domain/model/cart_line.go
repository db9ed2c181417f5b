package model

// At most one line per (cart, product).
type CartLine struct {
	ID        int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64    `gorm:"not null;uniqueIndex:idx_cart_lines_cart_product" json:"cart_id"`
	ProductID int64    `gorm:"not null;uniqueIndex:idx_cart_lines_cart_product" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int64    `gorm:"not null" json:"quantity"`
}
