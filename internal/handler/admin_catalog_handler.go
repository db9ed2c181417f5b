package handler

import (
	"context"
	"net/http"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/domain/model"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/repository"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogAdminService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, in usecase.ProductCreateInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, in usecase.ProductUpdateInput) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AddImage(ctx context.Context, productID int64, in usecase.ImageInput) (model.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int64) error

	ListTags(ctx context.Context) ([]model.ProductTag, error)
	CreateTag(ctx context.Context, in usecase.TagInput) (model.ProductTag, error)
	UpdateTag(ctx context.Context, id int64, in usecase.TagInput) (model.ProductTag, error)
	DeleteTag(ctx context.Context, id int64) error

	ListBrands(ctx context.Context) ([]repository.BrandWithCount, error)
	CreateBrand(ctx context.Context, in usecase.BrandInput) (model.ProductBrand, error)
	UpdateBrand(ctx context.Context, id int64, in usecase.BrandInput) (model.ProductBrand, error)
	DeleteBrand(ctx context.Context, id int64) error

	ListFeatures(ctx context.Context) ([]model.ProductFeature, error)
	CreateFeature(ctx context.Context, in usecase.FeatureInput) (model.ProductFeature, error)
	UpdateFeature(ctx context.Context, id int64, in usecase.FeatureInput) (model.ProductFeature, error)
	DeleteFeature(ctx context.Context, id int64) error
}

// /admin/api catalog management, staff only
type AdminCatalogHandler struct {
	uc CatalogAdminService
}

func NewAdminCatalogHandler(uc CatalogAdminService) *AdminCatalogHandler {
	return &AdminCatalogHandler{uc: uc}
}

func (h *AdminCatalogHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	admin := e.Group("/admin/api", use(g.Access, g.BackOffice)...)

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.GET("/products/:id", h.getProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/products/:id/images", h.addImage)
	admin.DELETE("/products/:id/images/:image_id", h.deleteImage)

	admin.GET("/tags", h.listTags)
	admin.POST("/tags", h.createTag)
	admin.PATCH("/tags/:id", h.updateTag)
	admin.DELETE("/tags/:id", h.deleteTag)

	admin.GET("/brands", h.listBrands)
	admin.POST("/brands", h.createBrand)
	admin.PATCH("/brands/:id", h.updateBrand)
	admin.DELETE("/brands/:id", h.deleteBrand)

	admin.GET("/features", h.listFeatures)
	admin.POST("/features", h.createFeature)
	admin.PATCH("/features/:id", h.updateFeature)
	admin.DELETE("/features/:id", h.deleteFeature)
}

func (h *AdminCatalogHandler) listProducts(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product_list": out})
}

func (h *AdminCatalogHandler) getProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) createProduct(c echo.Context) error {
	var req usecase.ProductCreateInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.ProductUpdateInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) deleteProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) addImage(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.ImageInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.AddImage(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) deleteImage(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	imageID, ok := paramID(c, "image_id")
	if !ok {
		return badRequest(c, "invalid image id")
	}
	if err := h.uc.DeleteImage(c.Request().Context(), id, imageID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) listTags(c echo.Context) error {
	out, err := h.uc.ListTags(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tag_list": out})
}

func (h *AdminCatalogHandler) createTag(c echo.Context) error {
	var req usecase.TagInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.CreateTag(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateTag(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.TagInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.UpdateTag(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) deleteTag(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.DeleteTag(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) listBrands(c echo.Context) error {
	out, err := h.uc.ListBrands(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"brand_list": out})
}

func (h *AdminCatalogHandler) createBrand(c echo.Context) error {
	var req usecase.BrandInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.CreateBrand(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateBrand(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.BrandInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.UpdateBrand(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) deleteBrand(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.DeleteBrand(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) listFeatures(c echo.Context) error {
	out, err := h.uc.ListFeatures(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"feature_list": out})
}

func (h *AdminCatalogHandler) createFeature(c echo.Context) error {
	var req usecase.FeatureInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.CreateFeature(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateFeature(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.FeatureInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.UpdateFeature(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) deleteFeature(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.DeleteFeature(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
