package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
)

func setupTaxonomyRepo(t *testing.T) *PostgresTaxonomyRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContentType{}, &models.Category{}))
	return NewPostgresTaxonomyRepository(db)
}

func TestTaxonomyContentTypes(t *testing.T) {
	repo := setupTaxonomyRepo(t)

	ct := &models.ContentType{Name: "articles", Label: "مقالات"}
	require.NoError(t, repo.CreateContentType(ct))
	require.NotZero(t, ct.ID)

	types, err := repo.ListContentTypes()
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "مقالات", types[0].Label)

	fetched, err := repo.GetContentType(ct.ID)
	require.NoError(t, err)
	assert.Equal(t, ct.Name, fetched.Name)

	_, err = repo.GetContentType(999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaxonomyCategories(t *testing.T) {
	repo := setupTaxonomyRepo(t)

	ct := &models.ContentType{Name: "articles", Label: "مقالات"}
	require.NoError(t, repo.CreateContentType(ct))

	def := &models.Category{Label: "فلسفة", IsDefault: true}
	scoped := &models.Category{Label: "فلسفة", ContentTypeID: &ct.ID}
	require.NoError(t, repo.CreateCategory(def))
	require.NoError(t, repo.CreateCategory(scoped))

	all, err := repo.ListCategories()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	subset, err := repo.GetCategoriesByIDs([]uint{def.ID})
	require.NoError(t, err)
	require.Len(t, subset, 1)
	assert.True(t, subset[0].IsDefault)
	assert.Nil(t, subset[0].ContentTypeID)

	empty, err := repo.GetCategoriesByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
