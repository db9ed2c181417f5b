package usecase

import "fmt"

// entity labels used in NotFound messages

func cartName(id int64) string     { return fmt.Sprintf("Cart %d", id) }
func cartLineName(id int64) string { return fmt.Sprintf("Cart line %d", id) }
func productName(id int64) string  { return fmt.Sprintf("Product %d", id) }
func userName(id int64) string     { return fmt.Sprintf("User %d", id) }
func orderName(id int64) string    { return fmt.Sprintf("Order %d", id) }
