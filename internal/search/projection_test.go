package search

import (
	"testing"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductProjection_Project(t *testing.T) {
	brandID := int64(3)
	p := model.Product{
		ID:          7,
		Name:        "G Pro X Superlight",
		Slug:        "g-pro-x-superlight",
		Description: "not indexed",
		Price:       decimal.RequireFromString("149.99"),
		BrandID:     &brandID,
		Brand:       &model.ProductBrand{ID: 3, Name: "Logitech"},
		Tags:        []model.ProductTag{{Name: "Wireless"}, {Name: "Esports"}},
		Images: []model.ProductImage{
			{ImageURL: "https://img/1.png", ThumbnailURL: "https://img/1_t.png", Main: true},
		},
	}

	doc, err := ProductProjection.Project(p)
	require.NoError(t, err)

	assert.Equal(t, "G Pro X Superlight", doc["name"])
	assert.Equal(t, "g-pro-x-superlight", doc["slug"])
	assert.Equal(t, "149.99", doc["price"])
	// single sub-field flattens to a scalar
	assert.Equal(t, "Logitech", doc["brand"])
	assert.Equal(t, []any{
		map[string]any{"name": "Wireless"},
		map[string]any{"name": "Esports"},
	}, doc["tags"])
	assert.Equal(t, []any{
		map[string]any{"image_url": "https://img/1.png", "thumbnail_url": "https://img/1_t.png", "main": true},
	}, doc["images"])

	_, hasDescription := doc["description"]
	assert.False(t, hasDescription)
}

func TestProjection_MissingRelation(t *testing.T) {
	doc, err := ProductProjection.Project(model.Product{Name: "Bare"})
	require.NoError(t, err)

	assert.Nil(t, doc["brand"])
	assert.Equal(t, []any{}, doc["tags"])
}

func TestProductProjection_WholeDocument(t *testing.T) {
	doc, err := ProductProjection.Project(model.Product{
		ID:    9,
		Name:  "Viper",
		Slug:  "viper",
		Price: decimal.RequireFromString("39.99"),
	})
	require.NoError(t, err)

	want := Document{
		"name":   "Viper",
		"slug":   "viper",
		"price":  "39.99",
		"brand":  nil,
		"tags":   []any{},
		"images": []any{},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestProjection_OneWithSeveralSubFields(t *testing.T) {
	type owner struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	type pet struct {
		Owner owner `json:"owner"`
	}

	doc, err := Projection{Fields: []Field{One("owner", "name", "age")}}.Project(pet{Owner: owner{"Ann", 30}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ann", "age": float64(30)}, doc["owner"])
}

func TestProjection_UnmarshalableEntity(t *testing.T) {
	_, err := ProductProjection.Project(make(chan int))
	assert.Error(t, err)
}
