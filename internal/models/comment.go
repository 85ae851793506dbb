package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment statuses. Hidden comments stay in the collection for moderation but
// are excluded from listings.
const (
	CommentStatusVisible = "visible"
	CommentStatusHidden  = "hidden"
)

// Comment represents a comment on a content item, stored in MongoDB next to
// the content so comment-like toggles can adjust likes_count in the same
// transaction as the reaction edge.
type Comment struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ContentID  primitive.ObjectID  `json:"content_id" bson:"content_id"`
	UserID     uint                `json:"user_id" bson:"user_id"`
	ParentID   *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Body       string              `json:"body" bson:"body"`
	LikesCount int64               `json:"likes_count" bson:"likes_count"`
	Status     string              `json:"status" bson:"status"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Body     string `json:"body" validate:"required,min=1,max=2000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
}
