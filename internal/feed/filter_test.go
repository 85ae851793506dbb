package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-platform/backend/internal/models"
)

func uintPtr(v uint) *uint { return &v }

// Taxonomy used across the tests: two content types, a default category whose
// label also exists as a scoped category under the "articles" type, and a few
// scoped categories.
func testCategories() []models.Category {
	return []models.Category{
		{ID: 1, Label: "فلسفة", IsDefault: true},
		{ID: 2, Label: "تاريخ", IsDefault: true},
		{ID: 10, Label: "فلسفة", ContentTypeID: uintPtr(100)}, // under "مقالات"
		{ID: 11, Label: "نقد", ContentTypeID: uintPtr(100)},
		{ID: 20, Label: "قصص قصيرة", ContentTypeID: uintPtr(200)},
	}
}

func TestResolveNothingSelected(t *testing.T) {
	res := Resolve(nil, nil, testCategories())

	assert.Empty(t, res.EffectiveTypeIDs)
	assert.Empty(t, res.EffectiveCategoryIDs)
	assert.False(t, res.Unrestricted)

	// Facet offers default categories only.
	require.Len(t, res.FacetCategories, 2)
	for _, c := range res.FacetCategories {
		assert.True(t, c.IsDefault)
	}
}

func TestResolveTypeSelected(t *testing.T) {
	res := Resolve([]uint{100}, nil, testCategories())

	assert.Equal(t, []uint{100}, res.EffectiveTypeIDs)
	assert.Empty(t, res.EffectiveCategoryIDs)

	// Facet shows only categories scoped to the selected type; defaults hidden.
	require.Len(t, res.FacetCategories, 2)
	for _, c := range res.FacetCategories {
		assert.False(t, c.IsDefault)
		require.NotNil(t, c.ContentTypeID)
		assert.Equal(t, uint(100), *c.ContentTypeID)
	}
}

func TestResolveTypeAndCategorySelected(t *testing.T) {
	res := Resolve([]uint{100, 200}, []uint{10, 20}, testCategories())

	assert.Equal(t, []uint{100, 200}, res.EffectiveTypeIDs)
	assert.Equal(t, []uint{10, 20}, res.EffectiveCategoryIDs)
	assert.Len(t, res.FacetCategories, 3)
}

func TestResolveDefaultCategoryJoinsByLabel(t *testing.T) {
	// Selecting the default "فلسفة" with no type must restrict to content
	// type 100 ("مقالات"), whose scoped category carries the same label.
	res := Resolve(nil, []uint{1}, testCategories())

	assert.Equal(t, []uint{100}, res.EffectiveTypeIDs)
	assert.Empty(t, res.EffectiveCategoryIDs)
	assert.False(t, res.Unrestricted)

	// Facet stays on the defaults during cross-type exploration.
	for _, c := range res.FacetCategories {
		assert.True(t, c.IsDefault)
	}
}

func TestResolveDefaultCategoryLabelSharedByTwoTypes(t *testing.T) {
	categories := append(testCategories(),
		models.Category{ID: 30, Label: "فلسفة", ContentTypeID: uintPtr(200)})

	res := Resolve(nil, []uint{1}, categories)
	assert.ElementsMatch(t, []uint{100, 200}, res.EffectiveTypeIDs)
}

func TestResolveDefaultCategoryWithoutMatchFallsBackUnrestricted(t *testing.T) {
	// "تاريخ" has no scoped counterpart; the documented fallback is an
	// unrestricted query.
	res := Resolve(nil, []uint{2}, testCategories())

	assert.Empty(t, res.EffectiveTypeIDs)
	assert.Empty(t, res.EffectiveCategoryIDs)
	assert.True(t, res.Unrestricted)
}

func TestResolveIgnoresScopedCategoryIDsInCrossTypeScenario(t *testing.T) {
	// Selecting a scoped category id without its type is not scenario 2; the
	// join only considers default categories, so nothing matches.
	res := Resolve(nil, []uint{10}, testCategories())

	assert.Empty(t, res.EffectiveTypeIDs)
	assert.True(t, res.Unrestricted)
}

func TestResolveIsPure(t *testing.T) {
	categories := testCategories()
	first := Resolve(nil, []uint{1}, categories)
	second := Resolve(nil, []uint{1}, categories)

	assert.Equal(t, first, second)
	// The input taxonomy is untouched.
	assert.Equal(t, testCategories(), categories)
}
