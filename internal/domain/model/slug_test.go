package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSlug_SameNameSameSlug(t *testing.T) {
	first := DeriveSlug("", "Logitech G Pro Wireless")
	second := DeriveSlug("", "Logitech G Pro Wireless")

	assert.Equal(t, "logitech-g-pro-wireless", first)
	assert.Equal(t, first, second)
}

func TestDeriveSlug_KeepsExplicitSlug(t *testing.T) {
	assert.Equal(t, "custom-slug", DeriveSlug("custom-slug", "Something Else"))
}

func TestProduct_BeforeSave_DerivesOnlyWhenEmpty(t *testing.T) {
	p := &Product{Name: "Razer Viper Mini"}
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "razer-viper-mini", p.Slug)

	// saving again after a rename keeps the stored slug
	p.Name = "Razer Viper Ultimate"
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "razer-viper-mini", p.Slug)
}

func TestTagAndBrand_BeforeSave(t *testing.T) {
	tag := &ProductTag{Name: "Ergonomic Mice"}
	brand := &ProductBrand{Name: "SteelSeries", Slug: "steel"}

	assert.NoError(t, tag.BeforeSave(nil))
	assert.NoError(t, brand.BeforeSave(nil))

	assert.Equal(t, "ergonomic-mice", tag.Slug)
	assert.Equal(t, "steel", brand.Slug)
}

func TestProduct_MainImage(t *testing.T) {
	p := Product{Images: []ProductImage{{ID: 1}, {ID: 2, Main: true}}}
	img, ok := p.MainImage()
	assert.True(t, ok)
	assert.Equal(t, int64(2), img.ID)

	_, ok = Product{}.MainImage()
	assert.False(t, ok)
}
