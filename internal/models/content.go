package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategorySnapshot is the category data embedded in a content item at save
// time. It is a copy, not a reference: deleting the live Category row must not
// change what an already-published item claims about itself.
type CategorySnapshot struct {
	ID        uint   `json:"id" bson:"id"`
	Label     string `json:"label" bson:"label"`
	IsDefault bool   `json:"is_default" bson:"is_default"`
}

// ContentItem represents a published piece (article, story, poem) stored in MongoDB
type ContentItem struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Slug          string             `json:"slug" bson:"slug"`
	Body          string             `json:"body" bson:"body"`
	ContentTypeID uint               `json:"content_type_id" bson:"content_type_id"`
	Categories    []CategorySnapshot `json:"categories" bson:"categories"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Published     bool               `json:"published" bson:"published"`
	Featured      bool               `json:"featured" bson:"featured"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	ViewsCount    int64              `json:"views_count" bson:"views_count"`
	SavesCount    int64              `json:"saves_count" bson:"saves_count"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateContentRequest defines the request body for publishing a new content item
type CreateContentRequest struct {
	Title         string   `json:"title" validate:"required,min=2,max=200"`
	Slug          string   `json:"slug" validate:"required,min=2,max=200"`
	Body          string   `json:"body" validate:"required,min=1"`
	ContentTypeID uint     `json:"content_type_id" validate:"required"`
	CategoryIDs   []uint   `json:"category_ids" validate:"omitempty,dive,gt=0"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=60"`
	Published     bool     `json:"published"`
	Featured      bool     `json:"featured"`
}
