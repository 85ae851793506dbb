package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
)

// TaxonomyRepository defines the interface for content type and category lookups
type TaxonomyRepository interface {
	ListContentTypes() ([]models.ContentType, error)
	GetContentType(id uint) (*models.ContentType, error)
	CreateContentType(ct *models.ContentType) error
	ListCategories() ([]models.Category, error)
	GetCategoriesByIDs(ids []uint) ([]models.Category, error)
	CreateCategory(category *models.Category) error
}

// PostgresTaxonomyRepository implements TaxonomyRepository
type PostgresTaxonomyRepository struct {
	db *gorm.DB
}

// NewPostgresTaxonomyRepository creates a new PostgresTaxonomyRepository
func NewPostgresTaxonomyRepository(db *gorm.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db}
}

func (r *PostgresTaxonomyRepository) ListContentTypes() ([]models.ContentType, error) {
	var types []models.ContentType
	err := r.db.Order("id").Find(&types).Error
	return types, err
}

func (r *PostgresTaxonomyRepository) GetContentType(id uint) (*models.ContentType, error) {
	var ct models.ContentType
	if err := r.db.First(&ct, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ct, nil
}

func (r *PostgresTaxonomyRepository) CreateContentType(ct *models.ContentType) error {
	return r.db.Create(ct).Error
}

func (r *PostgresTaxonomyRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("id").Find(&categories).Error
	return categories, err
}

func (r *PostgresTaxonomyRepository) GetCategoriesByIDs(ids []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

func (r *PostgresTaxonomyRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}
