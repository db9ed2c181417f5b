package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	List(ctx context.Context, in usecase.ProductListInput) (usecase.ProductListOutput, error)
	GetBySlug(ctx context.Context, slug string) (usecase.ProductOutput, error)
	Search(ctx context.Context, query string, page, perPage int) (usecase.ProductListOutput, error)
	Tags(ctx context.Context) ([]usecase.TagOutput, error)
	Brands(ctx context.Context) ([]usecase.TagOutput, error)
}

// public catalog
type ProductHandler struct {
	uc CatalogService
}

func NewProductHandler(uc CatalogService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	api := e.Group("/api", use(g.General)...)

	api.GET("/products", h.list)
	api.GET("/products/search", h.search)
	api.GET("/product/:slug", h.detail)
	api.GET("/tags", h.tags)
	api.GET("/brands", h.brands)
}

// paging reads page and per_page. per_page is validated by the usecase.
func paging(c echo.Context, defPage int) (int, int, bool) {
	page, ok := queryInt(c, "page", defPage)
	if !ok {
		return 0, 0, false
	}
	perPage, ok := queryInt(c, "per_page", 0)
	if !ok {
		return 0, 0, false
	}
	return page, perPage, true
}

// tagSlugs accepts both tags=a&tags=b and tags=a,b.
func tagSlugs(c echo.Context) []string {
	var out []string
	for _, v := range c.QueryParams()["tags"] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func (h *ProductHandler) list(c echo.Context) error {
	page, perPage, ok := paging(c, 0)
	if !ok {
		return badRequest(c, "page and per_page must be non-negative integers")
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ProductListInput{
		Page:    page,
		PerPage: perPage,
		Tags:    tagSlugs(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) search(c echo.Context) error {
	page, perPage, ok := paging(c, 1)
	if !ok {
		return badRequest(c, "page and per_page must be non-negative integers")
	}

	out, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"), page, perPage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	out, err := h.uc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product_item": out})
}

func (h *ProductHandler) tags(c echo.Context) error {
	out, err := h.uc.Tags(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tag_list": out})
}

func (h *ProductHandler) brands(c echo.Context) error {
	out, err := h.uc.Brands(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"brand_list": out})
}
