package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/feed"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/ranking"
	"github.com/minbar-platform/backend/internal/repositories"
	"github.com/minbar-platform/backend/internal/taxonomy"
)

// relatedPoolSize bounds the candidate pool the ranker scores per request.
const relatedPoolSize = 500

// ContentHandler handles the content feed, detail, related-content and
// top-content requests.
type ContentHandler struct {
	contentRepository repositories.ContentRepository
	taxonomyService   *taxonomy.Service
	ranker            *ranking.Ranker
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentRepo repositories.ContentRepository, taxonomyService *taxonomy.Service, ranker *ranking.Ranker) *ContentHandler {
	return &ContentHandler{
		contentRepository: contentRepo,
		taxonomyService:   taxonomyService,
		ranker:            ranker,
	}
}

// RegisterContentRoutes registers content-related routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/content", h.GetFeed)
	g.GET("/content/top", h.GetTopContent)
	g.GET("/content/:slug", h.GetContentBySlug)
	g.GET("/related-content", h.GetRelatedContent)
}

// RegisterAdminContentRoutes registers the admin-only content routes
func (h *ContentHandler) RegisterAdminContentRoutes(g *echo.Group) {
	g.POST("/content", h.CreateContent)
}

// GetFeed resolves the filter selection against the taxonomy and returns one
// page of the content feed plus the category facet for the selection.
func (h *ContentHandler) GetFeed(c echo.Context) error {
	typeIDs, err := parseUintParams(c.QueryParams()["contentType"])
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid contentType parameter")
	}
	categoryIDs, err := parseUintParams(c.QueryParams()["category"])
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category parameter")
	}

	categories, err := h.taxonomyService.Categories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load categories")
	}

	resolution := feed.Resolve(typeIDs, categoryIDs, categories)

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	query := models.FeedQuery{
		ContentTypeIDs: resolution.EffectiveTypeIDs,
		CategoryIDs:    resolution.EffectiveCategoryIDs,
		SortBy:         c.QueryParam("sortBy"),
		Time:           c.QueryParam("time"),
		Search:         c.QueryParam("q"),
		Skip:           skip,
		Limit:          limit,
	}

	items, total, err := h.contentRepository.Feed(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to query content")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"content":         items,
		"totalCount":      total,
		"facetCategories": resolution.FacetCategories,
	})
}

// GetTopContent returns content ranked by popularity (views, likes, comments)
func (h *ContentHandler) GetTopContent(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	items, total, err := h.contentRepository.Top(c.Request().Context(), int64((page-1)*limit), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to rank content")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"content":    items,
		"totalCount": total,
	})
}

// GetContentBySlug returns a content item and counts the view
func (h *ContentHandler) GetContentBySlug(c echo.Context) error {
	slug := c.Param("slug")

	item, err := h.contentRepository.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content")
	}

	if err := h.contentRepository.IncrementViews(c.Request().Context(), item.ID.Hex()); err == nil {
		item.ViewsCount++
	}

	return c.JSON(http.StatusOK, item)
}

// GetRelatedContent scores the published corpus against a source item and
// returns the top matches with their scores and relevance tiers.
func (h *ContentHandler) GetRelatedContent(c echo.Context) error {
	contentID := c.QueryParam("contentId")
	if contentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contentId is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 20 {
		limit = 6
	}

	source, err := h.contentRepository.GetByID(c.Request().Context(), contentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content")
	}

	pool, err := h.contentRepository.ListPublished(c.Request().Context(), relatedPoolSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load candidates")
	}

	scored := h.ranker.Rank(*source, pool, limit)

	type relatedItem struct {
		Content models.ContentItem `json:"content"`
		Score   float64            `json:"score"`
		Tier    string             `json:"tier"`
	}
	related := make([]relatedItem, len(scored))
	for i, s := range scored {
		related[i] = relatedItem{Content: s.Content, Score: s.Score, Tier: ranking.RelevanceTier(s.Score)}
	}

	return c.JSON(http.StatusOK, echo.Map{"related": related})
}

// CreateContent publishes a new content item. Admin only. The selected
// categories are copied into the item as snapshots at save time.
func (h *ContentHandler) CreateContent(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !isAdminFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	var req models.CreateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snapshots, err := h.taxonomyService.SnapshotsFor(c.Request().Context(), req.CategoryIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve categories")
	}

	item := &models.ContentItem{
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		ContentTypeID: req.ContentTypeID,
		Categories:    snapshots,
		Tags:          req.Tags,
		Published:     req.Published,
		Featured:      req.Featured,
		AuthorID:      userID,
	}
	if err := h.contentRepository.Create(c.Request().Context(), item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create content")
	}

	return c.JSON(http.StatusCreated, item)
}

// parseUintParams parses repeatable numeric query parameters.
func parseUintParams(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
