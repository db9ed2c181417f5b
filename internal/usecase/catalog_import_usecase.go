package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	repo "github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var importColumns = []string{"name", "price", "description", "brand", "tags", "image_filename"}

// ImportReport counts processed rows and related records.
type ImportReport struct {
	Products int
	Brands   int
	Tags     int
	Images   int
}

func (r ImportReport) String() string {
	return fmt.Sprintf("Products processed=%d\nBrands processed=%d\nTags processed=%d\nImages processed=%d",
		r.Products, r.Brands, r.Tags, r.Images)
}

// CatalogImportUsecase loads products from a CSV export.
type CatalogImportUsecase struct {
	products repo.ProductRepository
	tags     repo.TagRepository
	brands   repo.BrandRepository
	index    Reindexer
	log      *zap.Logger
}

func NewCatalogImportUsecase(
	products repo.ProductRepository,
	tags repo.TagRepository,
	brands repo.BrandRepository,
	index Reindexer,
	log *zap.Logger,
) *CatalogImportUsecase {
	return &CatalogImportUsecase{products: products, tags: tags, brands: brands, index: index, log: log}
}

// Import reads rows with the columns name, price, description, brand,
// tags (separated by "|") and image_filename. Brands, tags and products are
// reused when they exist. Images are served from imageBaseURL.
func (u *CatalogImportUsecase) Import(ctx context.Context, r io.Reader, imageBaseURL string) (ImportReport, error) {
	const method = "CatalogImportUsecase.Import"

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return ImportReport{}, InvalidArgument(fmt.Sprintf("read header: %v", err))
	}
	cols, err := columnIndex(header)
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, InvalidArgument(fmt.Sprintf("line %d: %v", line, err))
		}
		row := func(name string) string { return strings.TrimSpace(record[cols[name]]) }

		if err := u.importRow(ctx, row, imageBaseURL, &report); err != nil {
			if ue, ok := AsError(err); ok {
				return report, InvalidArgument(fmt.Sprintf("line %d: %s", line, ue.Message))
			}
			return report, internal(ctx, u.log, method, fmt.Errorf("line %d: %w", line, err))
		}
	}

	if u.index != nil {
		if err := u.index.ReindexAll(ctx, search.ProductIndex); err != nil {
			logWarn(ctx, u.log, method, "product reindex failed", err)
		}
	}
	return report, nil
}

func (u *CatalogImportUsecase) importRow(ctx context.Context, row func(string) string, imageBaseURL string, report *ImportReport) error {
	name := row("name")
	if err := validateName(name, maxProductName); err != nil {
		return err
	}
	price, err := decimal.NewFromString(row("price"))
	if err != nil || !price.IsPositive() {
		return InvalidArgument("price must be a positive number")
	}

	p := model.Product{Name: name, Price: price, Active: true, InStock: true}
	if err := u.products.FirstOrCreate(ctx, &p); err != nil {
		return err
	}
	p.Description = row("description")

	if brandName := row("brand"); brandName != "" {
		brand, err := u.brands.FirstOrCreateByName(ctx, brandName)
		if err != nil {
			return err
		}
		p.BrandID = &brand.ID
		report.Brands++
	}
	if err := u.products.Update(ctx, &p); err != nil {
		return err
	}

	var tags []model.ProductTag
	for _, tagName := range strings.Split(row("tags"), "|") {
		tagName = strings.TrimSpace(tagName)
		if tagName == "" {
			continue
		}
		tag, err := u.tags.FirstOrCreateByName(ctx, tagName)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
		report.Tags++
	}
	if len(tags) > 0 {
		if err := u.products.ReplaceTags(ctx, p.ID, tags); err != nil {
			return err
		}
	}

	if file := row("image_filename"); file != "" {
		img := importedImage(p.ID, imageBaseURL, file)
		if err := u.products.AddImage(ctx, &img); err != nil {
			return err
		}
		report.Images++
	}

	report.Products++
	return nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range importColumns {
		if _, ok := cols[c]; !ok {
			return nil, InvalidArgument(fmt.Sprintf("missing column %q", c))
		}
	}
	return cols, nil
}

// importedImage points at <base>/<file> with the thumbnail at <base>/<name>_thumb<ext>.
func importedImage(productID int64, baseURL, file string) model.ProductImage {
	base := strings.TrimRight(baseURL, "/")
	file = path.Base(file)
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)

	publicID := stem
	if len(publicID) > maxPublicID {
		publicID = publicID[:maxPublicID]
	}
	return model.ProductImage{
		ProductID:    productID,
		PublicID:     publicID,
		ImageURL:     base + "/" + file,
		ThumbnailURL: base + "/" + stem + "_thumb" + ext,
		Main:         true,
	}
}
