package search

import (
	"context"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
)

const ProductIndex = "products"

// ProductProjection lists the searchable product fields.
var ProductProjection = Projection{
	Fields: []Field{
		Scalar("name"),
		Scalar("slug"),
		Scalar("price"),
		One("brand", "name"),
		Many("tags", "name"),
		Many("images", "image_url", "thumbnail_url", "main"),
	},
}

type productRow struct {
	model.Product
}

func (r productRow) DocumentID() int64 { return r.ID }

// ProductLister loads every present product with relations.
type ProductLister interface {
	ListAll(ctx context.Context) ([]model.Product, error)
}

func ProductSource(products ProductLister) Source {
	return Source{
		Index:      ProductIndex,
		Projection: ProductProjection,
		Load: func(ctx context.Context) ([]Row, error) {
			all, err := products.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(all))
			for _, p := range all {
				rows = append(rows, productRow{p})
			}
			return rows, nil
		},
	}
}
