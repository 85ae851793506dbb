// Package taxonomy serves content types and categories through the lookup
// cache and resolves category snapshots for content writes.
package taxonomy

import (
	"context"

	"github.com/minbar-platform/backend/internal/cache"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/repositories"
)

// Service is the cached read/write surface over the taxonomy tables.
type Service struct {
	repo   repositories.TaxonomyRepository
	lookup *cache.Lookup
}

// NewService creates a taxonomy Service.
func NewService(repo repositories.TaxonomyRepository, lookup *cache.Lookup) *Service {
	return &Service{repo: repo, lookup: lookup}
}

// ContentTypes returns all content types, served from the cache.
func (s *Service) ContentTypes(ctx context.Context) ([]models.ContentType, error) {
	var types []models.ContentType
	err := s.lookup.GetOrPopulate(ctx, cache.KeyContentTypes, &types, func(context.Context) (any, error) {
		return s.repo.ListContentTypes()
	})
	return types, err
}

// Categories returns all categories, served from the cache.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.lookup.GetOrPopulate(ctx, cache.KeyCategories, &categories, func(context.Context) (any, error) {
		return s.repo.ListCategories()
	})
	return categories, err
}

// CreateContentType persists a content type and invalidates the cached list.
func (s *Service) CreateContentType(ctx context.Context, ct *models.ContentType) error {
	if err := s.repo.CreateContentType(ct); err != nil {
		return err
	}
	return s.lookup.Invalidate(ctx, cache.KeyContentTypes)
}

// CreateCategory persists a category and invalidates the cached list.
func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.repo.CreateCategory(category); err != nil {
		return err
	}
	return s.lookup.Invalidate(ctx, cache.KeyCategories)
}

// SnapshotsFor resolves category ids to the embeddable snapshots stored on a
// content item at save time. Unknown ids are skipped: the snapshot list holds
// only categories that existed when the item was saved. Reads go straight to
// the repository, not the cache, so a just-created category is usable
// immediately.
func (s *Service) SnapshotsFor(ctx context.Context, ids []uint) ([]models.CategorySnapshot, error) {
	categories, err := s.repo.GetCategoriesByIDs(ids)
	if err != nil {
		return nil, err
	}
	snapshots := make([]models.CategorySnapshot, 0, len(categories))
	for _, c := range categories {
		snapshots = append(snapshots, c.Snapshot())
	}
	return snapshots, nil
}
