package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/taxonomy"
)

// TaxonomyHandler serves content types and categories and the admin-only
// endpoints that create them.
type TaxonomyHandler struct {
	taxonomyService *taxonomy.Service
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(taxonomyService *taxonomy.Service) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// RegisterTaxonomyRoutes registers the public taxonomy routes
func (h *TaxonomyHandler) RegisterTaxonomyRoutes(g *echo.Group) {
	g.GET("/taxonomy/content-types", h.GetContentTypes)
	g.GET("/taxonomy/categories", h.GetCategories)
}

// RegisterAdminTaxonomyRoutes registers the admin-only taxonomy routes
func (h *TaxonomyHandler) RegisterAdminTaxonomyRoutes(g *echo.Group) {
	g.POST("/content-types", h.CreateContentType)
	g.POST("/categories", h.CreateCategory)
}

// GetContentTypes lists all content types
func (h *TaxonomyHandler) GetContentTypes(c echo.Context) error {
	types, err := h.taxonomyService.ContentTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content types")
	}
	return c.JSON(http.StatusOK, echo.Map{"contentTypes": types})
}

// GetCategories lists all categories
func (h *TaxonomyHandler) GetCategories(c echo.Context) error {
	categories, err := h.taxonomyService.Categories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load categories")
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

// CreateContentType creates a content type. Admin only.
func (h *TaxonomyHandler) CreateContentType(c echo.Context) error {
	if !isAdminFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateContentTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ct := &models.ContentType{Name: req.Name, Label: req.Label}
	if err := h.taxonomyService.CreateContentType(c.Request().Context(), ct); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create content type")
	}
	return c.JSON(http.StatusCreated, ct)
}

// CreateCategory creates a category. Admin only. A non-default category must
// name the content type it is scoped to.
func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	if !isAdminFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category := &models.Category{Label: req.Label, IsDefault: req.IsDefault}
	if !req.IsDefault {
		typeID := req.ContentTypeID
		category.ContentTypeID = &typeID
	}
	if err := h.taxonomyService.CreateCategory(c.Request().Context(), category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}
