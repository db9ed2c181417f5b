package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultPerPage = 10

var allowedPerPage = map[int]bool{5: true, 10: true, 20: true, 30: true, 40: true}

// ProductUsecase serves the public catalog.
type ProductUsecase struct {
	products repo.ProductRepository
	tags     repo.TagRepository
	brands   repo.BrandRepository
	search   Searcher
	log      *zap.Logger
}

func NewProductUsecase(
	products repo.ProductRepository,
	tags repo.TagRepository,
	brands repo.BrandRepository,
	searcher Searcher,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{products: products, tags: tags, brands: brands, search: searcher, log: log}
}

type NamedSlug struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type FeatureOutput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ImageOutput struct {
	ID           int64  `json:"id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Main         bool   `json:"main"`
}

type ProductOutput struct {
	ID             int64                        `json:"id"`
	Name           string                       `json:"name"`
	Brand          *NamedSlug                   `json:"brand"`
	Specifications *model.ProductSpecifications `json:"specifications"`
	Features       []FeatureOutput              `json:"features"`
	Tags           []NamedSlug                  `json:"tags"`
	Images         []ImageOutput                `json:"images"`
	Description    string                       `json:"description"`
	Price          decimal.Decimal              `json:"price"`
	Slug           string                       `json:"slug"`
	InStock        bool                         `json:"in_stock"`
}

type ProductListInput struct {
	// Page 0 returns every matching product.
	Page    int
	PerPage int
	Tags    []string
}

type ProductListOutput struct {
	Products []ProductOutput `json:"product_list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
}

type TagOutput struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	TotalProducts int64  `json:"total_products"`
}

// resolvePerPage applies the default and the whitelist.
func resolvePerPage(perPage int) (int, error) {
	if perPage == 0 {
		return DefaultPerPage, nil
	}
	if !allowedPerPage[perPage] {
		return 0, InvalidArgument("per_page must be one of 5, 10, 20, 30, 40")
	}
	return perPage, nil
}

func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) (ProductListOutput, error) {
	perPage, err := resolvePerPage(in.PerPage)
	if err != nil {
		return ProductListOutput{}, err
	}
	if in.Page < 0 {
		return ProductListOutput{}, InvalidArgument("page must be positive")
	}

	q := repo.ProductListQuery{Page: in.Page, TagSlugs: cleanSlugs(in.Tags)}
	if in.Page > 0 {
		q.PerPage = perPage
	}

	products, total, err := u.products.ListActive(ctx, q)
	if err != nil {
		return ProductListOutput{}, internal(ctx, u.log, "ProductUsecase.List", err)
	}
	return ProductListOutput{
		Products: toProductOutputs(products),
		Total:    total,
		Page:     in.Page,
		PerPage:  q.PerPage,
	}, nil
}

func (u *ProductUsecase) GetBySlug(ctx context.Context, slug string) (ProductOutput, error) {
	p, err := u.products.FindActiveBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return ProductOutput{}, notFoundOr(ctx, u.log, "ProductUsecase.GetBySlug", err, "Product")
	}
	return toProductOutput(p), nil
}

// Search runs a free-text query against the product index and loads the
// hits in relevance order. Inactive hits are dropped.
func (u *ProductUsecase) Search(ctx context.Context, query string, page, perPage int) (ProductListOutput, error) {
	const method = "ProductUsecase.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return ProductListOutput{}, InvalidArgument("q is required")
	}
	perPage, err := resolvePerPage(perPage)
	if err != nil {
		return ProductListOutput{}, err
	}
	if page < 1 {
		page = 1
	}
	if last := search.MaxPage(perPage); page > last {
		return ProductListOutput{}, InvalidArgument(fmt.Sprintf("page must be at most %d", last))
	}

	hits, err := u.search.Search(ctx, search.ProductIndex, query, page, perPage)
	if err != nil {
		return ProductListOutput{}, internal(ctx, u.log, method, err)
	}
	products, err := u.products.FindActiveByIDs(ctx, hits.IDs)
	if err != nil {
		return ProductListOutput{}, internal(ctx, u.log, method, err)
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]model.Product, 0, len(hits.IDs))
	for _, id := range hits.IDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	// hits dropped on this page are not counted
	total := hits.Total - int64(len(hits.IDs)-len(ordered))
	if total < int64(len(ordered)) {
		total = int64(len(ordered))
	}
	return ProductListOutput{
		Products: toProductOutputs(ordered),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// Tags lists active tags with their product counts.
func (u *ProductUsecase) Tags(ctx context.Context) ([]TagOutput, error) {
	tags, err := u.tags.ListActiveWithCounts(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "ProductUsecase.Tags", err)
	}
	out := make([]TagOutput, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagOutput{Name: t.Name, Slug: t.Slug, TotalProducts: t.TotalProducts})
	}
	return out, nil
}

func (u *ProductUsecase) Brands(ctx context.Context) ([]TagOutput, error) {
	brands, err := u.brands.ListWithCounts(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "ProductUsecase.Brands", err)
	}
	out := make([]TagOutput, 0, len(brands))
	for _, b := range brands {
		out = append(out, TagOutput{Name: b.Name, Slug: b.Slug, TotalProducts: b.TotalProducts})
	}
	return out, nil
}

func cleanSlugs(in []string) []string {
	var out []string
	for _, raw := range in {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func toProductOutputs(ps []model.Product) []ProductOutput {
	out := make([]ProductOutput, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductOutput(p))
	}
	return out
}

func toProductOutput(p model.Product) ProductOutput {
	out := ProductOutput{
		ID:             p.ID,
		Name:           p.Name,
		Specifications: p.Specifications,
		Features:       make([]FeatureOutput, 0, len(p.Features)),
		Tags:           make([]NamedSlug, 0, len(p.Tags)),
		Images:         make([]ImageOutput, 0, len(p.Images)),
		Description:    p.Description,
		Price:          p.Price,
		Slug:           p.Slug,
		InStock:        p.InStock,
	}
	if p.Brand != nil {
		out.Brand = &NamedSlug{Name: p.Brand.Name, Slug: p.Brand.Slug}
	}
	for _, f := range p.Features {
		out.Features = append(out.Features, FeatureOutput{ID: f.ID, Title: f.Title, Description: f.Description})
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, NamedSlug{Name: t.Name, Slug: t.Slug})
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, ImageOutput{
			ID:           img.ID,
			ImageURL:     img.ImageURL,
			ThumbnailURL: img.ThumbnailURL,
			Main:         img.Main,
		})
	}
	return out
}
