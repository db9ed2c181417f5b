package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item. Price is stored as numeric(10,2).
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(64);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Slug        string          `gorm:"type:varchar(84);index" json:"slug"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	InStock     bool            `gorm:"not null" json:"in_stock"`
	Active      bool            `gorm:"not null;index" json:"active"`

	BrandID *int64        `gorm:"index" json:"brand_id"`
	Brand   *ProductBrand `json:"brand,omitempty"`

	SpecificationsID *int64                 `json:"-"`
	Specifications   *ProductSpecifications `gorm:"constraint:OnDelete:SET NULL" json:"specifications,omitempty"`

	Images   []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	Tags     []ProductTag     `gorm:"many2many:product_and_tag_assoc" json:"tags"`
	Features []ProductFeature `gorm:"many2many:product_and_feature_assoc" json:"features"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"date_created"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"date_updated"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeSave fills the slug from the name when none was supplied.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = DeriveSlug(p.Slug, p.Name)
	return nil
}

// MainImage returns the image flagged main, or the first one.
func (p Product) MainImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.Main {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

type ProductImage struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    int64  `gorm:"not null;index" json:"product_id"`
	PublicID     string `gorm:"type:varchar(50);not null" json:"public_id"`
	ImageURL     string `gorm:"type:varchar(255);not null" json:"image_url"`
	ThumbnailURL string `gorm:"type:varchar(255);not null" json:"thumbnail_url"`
	Main         bool   `gorm:"not null" json:"main"`
}

type ProductFeature struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(64);not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
}

// ProductSpecifications holds the hardware sheet of a mouse.
type ProductSpecifications struct {
	ID                       int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	LightingType             string `gorm:"type:varchar(20)" json:"lighting_type"`
	MinimumSensitivity       string `gorm:"type:varchar(20)" json:"minimum_sensitivity"`
	MaximumSensitivity       string `gorm:"type:varchar(20)" json:"maximum_sensitivity"`
	TotalButtons             int    `json:"total_buttons"`
	TotalProgrammableButtons int    `json:"total_programmable_buttons"`
	Wireless                 bool   `json:"wireless"`
	Height                   string `gorm:"type:varchar(20)" json:"height"`
	Width                    string `gorm:"type:varchar(20)" json:"width"`
	Weight                   string `gorm:"type:varchar(20)" json:"weight"`
}
