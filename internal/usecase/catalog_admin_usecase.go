package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/optional"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogAdminUsecase is the back office for products, tags, brands and
// features. Every successful write triggers a product reindex.
type CatalogAdminUsecase struct {
	products repo.ProductRepository
	tags     repo.TagRepository
	brands   repo.BrandRepository
	features repo.FeatureRepository
	index    Reindexer
	log      *zap.Logger
}

func NewCatalogAdminUsecase(
	products repo.ProductRepository,
	tags repo.TagRepository,
	brands repo.BrandRepository,
	features repo.FeatureRepository,
	index Reindexer,
	log *zap.Logger,
) *CatalogAdminUsecase {
	return &CatalogAdminUsecase{
		products: products,
		tags:     tags,
		brands:   brands,
		features: features,
		index:    index,
		log:      log,
	}
}

// column sizes of the catalog tables
const (
	maxProductName = 64
	maxProductSlug = 84
	maxPublicID    = 50
)

type ProductCreateInput struct {
	Name           string                       `json:"name"`
	Description    string                       `json:"description"`
	Slug           string                       `json:"slug"`
	Price          decimal.Decimal              `json:"price"`
	InStock        bool                         `json:"in_stock"`
	Active         bool                         `json:"active"`
	BrandID        *int64                       `json:"brand_id"`
	TagIDs         []int64                      `json:"tag_ids"`
	FeatureIDs     []int64                      `json:"feature_ids"`
	Specifications *model.ProductSpecifications `json:"specifications"`
}

// ProductUpdateInput is a partial update. A brand_id of 0 clears the brand.
type ProductUpdateInput struct {
	Name           optional.Value[string]                      `json:"name"`
	Description    optional.Value[string]                      `json:"description"`
	Slug           optional.Value[string]                      `json:"slug"`
	Price          optional.Value[decimal.Decimal]             `json:"price"`
	InStock        optional.Value[bool]                        `json:"in_stock"`
	Active         optional.Value[bool]                        `json:"active"`
	BrandID        optional.Value[int64]                       `json:"brand_id"`
	TagIDs         optional.Value[[]int64]                     `json:"tag_ids"`
	FeatureIDs     optional.Value[[]int64]                     `json:"feature_ids"`
	Specifications optional.Value[model.ProductSpecifications] `json:"specifications"`
}

type ImageInput struct {
	PublicID     string `json:"public_id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Main         bool   `json:"main"`
}

type TagInput struct {
	Name   optional.Value[string] `json:"name"`
	Slug   optional.Value[string] `json:"slug"`
	Active optional.Value[bool]   `json:"active"`
}

type BrandInput struct {
	Name   optional.Value[string] `json:"name"`
	Slug   optional.Value[string] `json:"slug"`
	Active optional.Value[bool]   `json:"active"`
}

type FeatureInput struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
}

func validateProduct(p model.Product) error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return InvalidArgument("name is required")
	case len(name) > maxProductName:
		return InvalidArgument(fmt.Sprintf("name must be at most %d characters", maxProductName))
	case len(p.Slug) > maxProductSlug:
		return InvalidArgument(fmt.Sprintf("slug must be at most %d characters", maxProductSlug))
	case !p.Price.IsPositive():
		return InvalidArgument("price must be greater than 0")
	}
	return nil
}

// ---- products ----

func (u *CatalogAdminUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	ps, err := u.products.ListAll(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "CatalogAdminUsecase.ListProducts", err)
	}
	return ps, nil
}

func (u *CatalogAdminUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, notFoundOr(ctx, u.log, "CatalogAdminUsecase.GetProduct", err, productName(id))
	}
	return p, nil
}

func (u *CatalogAdminUsecase) CreateProduct(ctx context.Context, in ProductCreateInput) (model.Product, error) {
	const method = "CatalogAdminUsecase.CreateProduct"

	p := model.Product{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Slug:           strings.TrimSpace(in.Slug),
		Price:          in.Price,
		InStock:        in.InStock,
		Active:         in.Active,
		Specifications: in.Specifications,
	}
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}
	if in.BrandID != nil && *in.BrandID > 0 {
		if err := u.requireBrand(ctx, method, *in.BrandID); err != nil {
			return model.Product{}, err
		}
		p.BrandID = in.BrandID
	}

	var err error
	if p.Tags, err = u.resolveTags(ctx, method, in.TagIDs); err != nil {
		return model.Product{}, err
	}
	if p.Features, err = u.resolveFeatures(ctx, method, in.FeatureIDs); err != nil {
		return model.Product{}, err
	}

	if err := u.products.Create(ctx, &p); err != nil {
		return model.Product{}, internal(ctx, u.log, method, err)
	}
	u.reindex(ctx, method)
	return u.GetProduct(ctx, p.ID)
}

func (u *CatalogAdminUsecase) UpdateProduct(ctx context.Context, id int64, in ProductUpdateInput) (model.Product, error) {
	const method = "CatalogAdminUsecase.UpdateProduct"

	p, err := u.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	in.Name.Apply(&p.Name)
	in.Description.Apply(&p.Description)
	in.Slug.Apply(&p.Slug)
	in.Price.Apply(&p.Price)
	in.InStock.Apply(&p.InStock)
	in.Active.Apply(&p.Active)
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.TrimSpace(p.Slug)
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	if brandID, ok := in.BrandID.Get(); ok {
		if brandID <= 0 {
			p.BrandID = nil
		} else {
			if err := u.requireBrand(ctx, method, brandID); err != nil {
				return model.Product{}, err
			}
			p.BrandID = &brandID
		}
	}
	if spec, ok := in.Specifications.Get(); ok {
		if p.Specifications != nil {
			spec.ID = p.Specifications.ID
		}
		p.Specifications = &spec
	}

	if err := u.products.Update(ctx, &p); err != nil {
		return model.Product{}, notFoundOr(ctx, u.log, method, err, productName(id))
	}

	if ids, ok := in.TagIDs.Get(); ok {
		tags, err := u.resolveTags(ctx, method, ids)
		if err != nil {
			return model.Product{}, err
		}
		if err := u.products.ReplaceTags(ctx, id, tags); err != nil {
			return model.Product{}, internal(ctx, u.log, method, err)
		}
	}
	if ids, ok := in.FeatureIDs.Get(); ok {
		features, err := u.resolveFeatures(ctx, method, ids)
		if err != nil {
			return model.Product{}, err
		}
		if err := u.products.ReplaceFeatures(ctx, id, features); err != nil {
			return model.Product{}, internal(ctx, u.log, method, err)
		}
	}

	u.reindex(ctx, method)
	return u.GetProduct(ctx, id)
}

func (u *CatalogAdminUsecase) DeleteProduct(ctx context.Context, id int64) error {
	const method = "CatalogAdminUsecase.DeleteProduct"
	if err := u.products.SoftDelete(ctx, id); err != nil {
		return notFoundOr(ctx, u.log, method, err, productName(id))
	}
	u.reindex(ctx, method)
	return nil
}

// AddImage attaches an already uploaded image to a product.
func (u *CatalogAdminUsecase) AddImage(ctx context.Context, productID int64, in ImageInput) (model.ProductImage, error) {
	const method = "CatalogAdminUsecase.AddImage"

	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		return model.ProductImage{}, InvalidArgument("image_url is required")
	}
	img := model.ProductImage{
		ProductID:    productID,
		PublicID:     strings.TrimSpace(in.PublicID),
		ImageURL:     imageURL,
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		Main:         in.Main,
	}
	if img.ThumbnailURL == "" {
		img.ThumbnailURL = imageURL
	}
	if img.PublicID == "" {
		img.PublicID = strings.TrimSuffix(path.Base(imageURL), path.Ext(imageURL))
	}
	if len(img.PublicID) > maxPublicID {
		img.PublicID = img.PublicID[:maxPublicID]
	}

	if err := u.products.AddImage(ctx, &img); err != nil {
		return model.ProductImage{}, notFoundOr(ctx, u.log, method, err, productName(productID))
	}
	u.reindex(ctx, method)
	return img, nil
}

func (u *CatalogAdminUsecase) DeleteImage(ctx context.Context, productID, imageID int64) error {
	const method = "CatalogAdminUsecase.DeleteImage"
	if err := u.products.DeleteImage(ctx, productID, imageID); err != nil {
		return notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Image %d", imageID))
	}
	u.reindex(ctx, method)
	return nil
}

// ---- tags ----

func (u *CatalogAdminUsecase) ListTags(ctx context.Context) ([]model.ProductTag, error) {
	tags, err := u.tags.List(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "CatalogAdminUsecase.ListTags", err)
	}
	return tags, nil
}

func (u *CatalogAdminUsecase) CreateTag(ctx context.Context, in TagInput) (model.ProductTag, error) {
	const method = "CatalogAdminUsecase.CreateTag"

	t := model.ProductTag{
		Name:   strings.TrimSpace(in.Name.OrElse("")),
		Slug:   strings.TrimSpace(in.Slug.OrElse("")),
		Active: in.Active.OrElse(true),
	}
	if err := validateName(t.Name, 32); err != nil {
		return model.ProductTag{}, err
	}
	if err := u.tags.Create(ctx, &t); err != nil {
		return model.ProductTag{}, conflictOr(ctx, u.log, method, err, "Tag name already exists")
	}
	u.reindex(ctx, method)
	return t, nil
}

func (u *CatalogAdminUsecase) UpdateTag(ctx context.Context, id int64, in TagInput) (model.ProductTag, error) {
	const method = "CatalogAdminUsecase.UpdateTag"

	t, err := u.tags.FindByID(ctx, id)
	if err != nil {
		return model.ProductTag{}, notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Tag %d", id))
	}
	in.Name.Apply(&t.Name)
	in.Slug.Apply(&t.Slug)
	in.Active.Apply(&t.Active)
	t.Name = strings.TrimSpace(t.Name)
	if err := validateName(t.Name, 32); err != nil {
		return model.ProductTag{}, err
	}
	if err := u.tags.Update(ctx, &t); err != nil {
		return model.ProductTag{}, conflictOr(ctx, u.log, method, err, "Tag name already exists")
	}
	u.reindex(ctx, method)
	return u.tags.FindByID(ctx, id)
}

func (u *CatalogAdminUsecase) DeleteTag(ctx context.Context, id int64) error {
	const method = "CatalogAdminUsecase.DeleteTag"
	if err := u.tags.Delete(ctx, id); err != nil {
		return notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Tag %d", id))
	}
	u.reindex(ctx, method)
	return nil
}

// ---- brands ----

func (u *CatalogAdminUsecase) ListBrands(ctx context.Context) ([]repo.BrandWithCount, error) {
	brands, err := u.brands.ListWithCounts(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "CatalogAdminUsecase.ListBrands", err)
	}
	return brands, nil
}

func (u *CatalogAdminUsecase) CreateBrand(ctx context.Context, in BrandInput) (model.ProductBrand, error) {
	const method = "CatalogAdminUsecase.CreateBrand"

	b := model.ProductBrand{
		Name:   strings.TrimSpace(in.Name.OrElse("")),
		Slug:   strings.TrimSpace(in.Slug.OrElse("")),
		Active: in.Active.OrElse(true),
	}
	if err := validateName(b.Name, 64); err != nil {
		return model.ProductBrand{}, err
	}
	if err := u.brands.Create(ctx, &b); err != nil {
		return model.ProductBrand{}, conflictOr(ctx, u.log, method, err, "Brand name already exists")
	}
	u.reindex(ctx, method)
	return b, nil
}

func (u *CatalogAdminUsecase) UpdateBrand(ctx context.Context, id int64, in BrandInput) (model.ProductBrand, error) {
	const method = "CatalogAdminUsecase.UpdateBrand"

	b, err := u.brands.FindByID(ctx, id)
	if err != nil {
		return model.ProductBrand{}, notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Brand %d", id))
	}
	in.Name.Apply(&b.Name)
	in.Slug.Apply(&b.Slug)
	in.Active.Apply(&b.Active)
	b.Name = strings.TrimSpace(b.Name)
	if err := validateName(b.Name, 64); err != nil {
		return model.ProductBrand{}, err
	}
	if err := u.brands.Update(ctx, &b); err != nil {
		return model.ProductBrand{}, conflictOr(ctx, u.log, method, err, "Brand name already exists")
	}
	u.reindex(ctx, method)
	return u.brands.FindByID(ctx, id)
}

func (u *CatalogAdminUsecase) DeleteBrand(ctx context.Context, id int64) error {
	const method = "CatalogAdminUsecase.DeleteBrand"
	if err := u.brands.Delete(ctx, id); err != nil {
		return notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Brand %d", id))
	}
	u.reindex(ctx, method)
	return nil
}

// ---- features ----

func (u *CatalogAdminUsecase) ListFeatures(ctx context.Context) ([]model.ProductFeature, error) {
	fs, err := u.features.List(ctx)
	if err != nil {
		return nil, internal(ctx, u.log, "CatalogAdminUsecase.ListFeatures", err)
	}
	return fs, nil
}

func (u *CatalogAdminUsecase) CreateFeature(ctx context.Context, in FeatureInput) (model.ProductFeature, error) {
	const method = "CatalogAdminUsecase.CreateFeature"

	f := model.ProductFeature{
		Title:       strings.TrimSpace(in.Title.OrElse("")),
		Description: strings.TrimSpace(in.Description.OrElse("")),
	}
	if err := validateName(f.Title, 64); err != nil {
		return model.ProductFeature{}, err
	}
	if err := u.features.Create(ctx, &f); err != nil {
		return model.ProductFeature{}, internal(ctx, u.log, method, err)
	}
	u.reindex(ctx, method)
	return f, nil
}

func (u *CatalogAdminUsecase) UpdateFeature(ctx context.Context, id int64, in FeatureInput) (model.ProductFeature, error) {
	const method = "CatalogAdminUsecase.UpdateFeature"

	fs, err := u.features.FindByIDs(ctx, []int64{id})
	if err != nil {
		return model.ProductFeature{}, internal(ctx, u.log, method, err)
	}
	if len(fs) == 0 {
		return model.ProductFeature{}, NotFound(fmt.Sprintf("Feature %d", id))
	}
	f := fs[0]
	in.Title.Apply(&f.Title)
	in.Description.Apply(&f.Description)
	f.Title = strings.TrimSpace(f.Title)
	if err := validateName(f.Title, 64); err != nil {
		return model.ProductFeature{}, err
	}
	if err := u.features.Update(ctx, &f); err != nil {
		return model.ProductFeature{}, notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Feature %d", id))
	}
	u.reindex(ctx, method)
	return f, nil
}

func (u *CatalogAdminUsecase) DeleteFeature(ctx context.Context, id int64) error {
	const method = "CatalogAdminUsecase.DeleteFeature"
	if err := u.features.Delete(ctx, id); err != nil {
		return notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Feature %d", id))
	}
	u.reindex(ctx, method)
	return nil
}

// ---- helpers ----

func (u *CatalogAdminUsecase) requireBrand(ctx context.Context, method string, id int64) error {
	if _, err := u.brands.FindByID(ctx, id); err != nil {
		return notFoundOr(ctx, u.log, method, err, fmt.Sprintf("Brand %d", id))
	}
	return nil
}

func (u *CatalogAdminUsecase) resolveTags(ctx context.Context, method string, ids []int64) ([]model.ProductTag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.ProductTag{}, nil
	}
	tags, err := u.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internal(ctx, u.log, method, err)
	}
	if len(tags) != len(ids) {
		return nil, NotFound("Tag")
	}
	return tags, nil
}

func (u *CatalogAdminUsecase) resolveFeatures(ctx context.Context, method string, ids []int64) ([]model.ProductFeature, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.ProductFeature{}, nil
	}
	fs, err := u.features.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internal(ctx, u.log, method, err)
	}
	if len(fs) != len(ids) {
		return nil, NotFound("Feature")
	}
	return fs, nil
}

// reindex rebuilds the product index. Failures are logged only.
func (u *CatalogAdminUsecase) reindex(ctx context.Context, method string) {
	if u.index == nil {
		return
	}
	if err := u.index.ReindexAll(ctx, search.ProductIndex); err != nil {
		logWarn(ctx, u.log, method, "product reindex failed", err)
	}
}

func validateName(name string, max int) error {
	if name == "" {
		return InvalidArgument("name is required")
	}
	if len(name) > max {
		return InvalidArgument(fmt.Sprintf("name must be at most %d characters", max))
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func conflictOr(ctx context.Context, base *zap.Logger, method string, err error, msg string) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return Conflict(msg)
	}
	return notFoundOr(ctx, base, method, err, "Record")
}
