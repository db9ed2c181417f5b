package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&ProductBrand{},
		&ProductTag{},
		&ProductFeature{},
		&ProductSpecifications{},
		&Product{},
		&ProductImage{},
		&User{},
		&Cart{},
		&CartLine{},
		&Order{},
		&OrderLine{},
	}
}
