package model

import "gorm.io/gorm"

type ProductBrand struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Slug   string `gorm:"type:varchar(84)" json:"slug"`
	Active bool   `gorm:"not null" json:"active"`
}

func (b *ProductBrand) BeforeSave(tx *gorm.DB) error {
	b.Slug = DeriveSlug(b.Slug, b.Name)
	return nil
}

type ProductTag struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(32);not null;uniqueIndex" json:"name"`
	Slug   string `gorm:"type:varchar(62);index" json:"slug"`
	Active bool   `gorm:"not null" json:"active"`
}

func (t *ProductTag) BeforeSave(tx *gorm.DB) error {
	t.Slug = DeriveSlug(t.Slug, t.Name)
	return nil
}
