package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minbar-platform/backend/internal/cache"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/ranking"
	"github.com/minbar-platform/backend/internal/repositories"
	"github.com/minbar-platform/backend/internal/taxonomy"
	"github.com/minbar-platform/backend/internal/validators"
)

// feedRecordingStore captures the query the handler builds from the resolved
// filter selection.
type feedRecordingStore struct {
	*fakeContentStore
	lastQuery models.FeedQuery
	feedItems []models.ContentItem
	feedTotal int64
}

func (s *feedRecordingStore) Feed(ctx context.Context, q models.FeedQuery) ([]models.ContentItem, int64, error) {
	s.lastQuery = q
	return s.feedItems, s.feedTotal, nil
}

func newTestTaxonomyService(t *testing.T) (*taxonomy.Service, repositories.TaxonomyRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContentType{}, &models.Category{}))
	repo := repositories.NewPostgresTaxonomyRepository(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return taxonomy.NewService(repo, cache.NewLookup(rdb, time.Minute)), repo
}

type contentTestEnv struct {
	echo     *echo.Echo
	handler  *ContentHandler
	contents *feedRecordingStore
	taxonomy *taxonomy.Service
}

func newContentTestEnv(t *testing.T, items ...*models.ContentItem) *contentTestEnv {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	service, repo := newTestTaxonomyService(t)

	articles := &models.ContentType{Name: "articles", Label: "مقالات"}
	stories := &models.ContentType{Name: "stories", Label: "قصص"}
	require.NoError(t, repo.CreateContentType(articles))
	require.NoError(t, repo.CreateContentType(stories))
	require.NoError(t, repo.CreateCategory(&models.Category{Label: "فلسفة", IsDefault: true}))
	require.NoError(t, repo.CreateCategory(&models.Category{Label: "فلسفة", ContentTypeID: &articles.ID}))
	require.NoError(t, repo.CreateCategory(&models.Category{Label: "تاريخ", ContentTypeID: &stories.ID}))

	contents := &feedRecordingStore{fakeContentStore: newFakeContentStore(items...)}
	return &contentTestEnv{
		echo:     e,
		handler:  NewContentHandler(contents, service, ranking.NewRanker(ranking.DefaultWeights)),
		contents: contents,
		taxonomy: service,
	}
}

func (env *contentTestEnv) getFeed(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	require.NoError(t, env.handler.GetFeed(c))
	return rec
}

func TestGetFeedNoSelection(t *testing.T) {
	env := newContentTestEnv(t)
	rec := env.getFeed(t, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.contents.lastQuery.ContentTypeIDs)
	assert.Empty(t, env.contents.lastQuery.CategoryIDs)

	// With nothing selected the facet offers the default categories.
	var payload struct {
		FacetCategories []models.Category `json:"facetCategories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.FacetCategories, 1)
	assert.True(t, payload.FacetCategories[0].IsDefault)
}

func TestGetFeedTypeAndCategorySelection(t *testing.T) {
	env := newContentTestEnv(t)
	rec := env.getFeed(t, "contentType=1&category=2&sortBy=most_liked&time=week")

	assert.Equal(t, http.StatusOK, rec.Code)
	q := env.contents.lastQuery
	assert.Equal(t, []uint{1}, q.ContentTypeIDs)
	assert.Equal(t, []uint{2}, q.CategoryIDs)
	assert.Equal(t, models.SortMostLiked, q.SortBy)
	assert.Equal(t, models.TimeWeek, q.Time)
}

func TestGetFeedCrossTypeLabelJoin(t *testing.T) {
	env := newContentTestEnv(t)

	// Category 1 is the default "فلسفة"; only the articles type carries a
	// scoped category with that label, so the query restricts to that type.
	env.getFeed(t, "category=1")
	q := env.contents.lastQuery
	assert.Equal(t, []uint{1}, q.ContentTypeIDs)
	assert.Empty(t, q.CategoryIDs)
}

func TestGetFeedUnmatchedLabelFallsBack(t *testing.T) {
	env := newContentTestEnv(t)

	// Category 3 is scoped (not a default), so the cross-type join resolves
	// nothing and the feed falls back to unrestricted.
	env.getFeed(t, "category=3")
	q := env.contents.lastQuery
	assert.Empty(t, q.ContentTypeIDs)
	assert.Empty(t, q.CategoryIDs)
}

func TestGetFeedRejectsBadParams(t *testing.T) {
	env := newContentTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/?contentType=abc", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	he := requireHTTPError(t, env.handler.GetFeed(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetContentBySlugCountsView(t *testing.T) {
	contentID := testObjectID(20)
	env := newContentTestEnv(t, &models.ContentItem{ID: contentID, Slug: "dunes", ViewsCount: 4})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("dunes")

	require.NoError(t, env.handler.GetContentBySlug(c))

	var item models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, int64(5), item.ViewsCount)
	assert.Equal(t, int64(5), env.contents.items[contentID.Hex()].ViewsCount)
}

func TestGetContentBySlugNotFound(t *testing.T) {
	env := newContentTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("missing")

	he := requireHTTPError(t, env.handler.GetContentBySlug(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetRelatedContent(t *testing.T) {
	source := &models.ContentItem{
		ID:            testObjectID(21),
		ContentTypeID: 1,
		Tags:          []string{"desert"},
		Published:     true,
	}
	sibling := &models.ContentItem{
		ID:            testObjectID(22),
		Title:         "Sands",
		ContentTypeID: 1,
		Tags:          []string{"desert"},
		Published:     true,
	}
	stranger := &models.ContentItem{
		ID:            testObjectID(23),
		ContentTypeID: 2,
		Published:     true,
	}
	env := newContentTestEnv(t, source, sibling, stranger)
	env.contents.fakeContentStore.published = []models.ContentItem{*source, *sibling, *stranger}

	req := httptest.NewRequest(http.MethodGet, "/?contentId="+source.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.handler.GetRelatedContent(c))

	var payload struct {
		Related []struct {
			Content models.ContentItem `json:"content"`
			Score   float64            `json:"score"`
			Tier    string             `json:"tier"`
		} `json:"related"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Related)
	assert.Equal(t, "Sands", payload.Related[0].Content.Title)
	assert.Greater(t, payload.Related[0].Score, 0.0)
	assert.NotEmpty(t, payload.Related[0].Tier)
}

func TestCreateContentRequiresAdmin(t *testing.T) {
	env := newContentTestEnv(t)
	body := `{"title":"Dunes","slug":"dunes","body":"...","content_type_id":1}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: 1})

	he := requireHTTPError(t, env.handler.CreateContent(c))
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestCreateContentSnapshotsCategories(t *testing.T) {
	env := newContentTestEnv(t)
	body := `{"title":"Dunes","slug":"dunes","body":"...","content_type_id":1,"category_ids":[1,99],"published":true}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: 1, IsAdmin: true})

	require.NoError(t, env.handler.CreateContent(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var item models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, uint(1), item.AuthorID)
	// The unknown id 99 is skipped; the known category is frozen in.
	require.Len(t, item.Categories, 1)
	assert.Equal(t, uint(1), item.Categories[0].ID)
	assert.Equal(t, "فلسفة", item.Categories[0].Label)
	assert.True(t, item.Categories[0].IsDefault)
}
