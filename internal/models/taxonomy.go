package models

// ContentType represents a publishing format (articles, stories, poetry, ...)
type ContentType struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:100;uniqueIndex"`
	Label string `json:"label" gorm:"size:100"`
}

// Category represents a browsing category. A default category is offered
// across all content types; a scoped category belongs to exactly one content
// type and ContentTypeID is set only in that case.
type Category struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Label         string `json:"label" gorm:"size:100;index"`
	IsDefault     bool   `json:"is_default" gorm:"index"`
	ContentTypeID *uint  `json:"content_type_id,omitempty" gorm:"index"`
}

// Snapshot copies the category into the embeddable form stored on content items.
func (c Category) Snapshot() CategorySnapshot {
	return CategorySnapshot{ID: c.ID, Label: c.Label, IsDefault: c.IsDefault}
}

// CreateContentTypeRequest defines the request body for creating a content type
type CreateContentTypeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Label string `json:"label" validate:"required,min=1,max=100"`
}

// CreateCategoryRequest defines the request body for creating a category.
// ContentTypeID is required unless the category is a default one.
type CreateCategoryRequest struct {
	Label         string `json:"label" validate:"required,min=1,max=100"`
	IsDefault     bool   `json:"is_default"`
	ContentTypeID uint   `json:"content_type_id" validate:"required_if=IsDefault false"`
}
