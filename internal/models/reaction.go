package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactionKind identifies what a reaction edge points at. The kind is part of
// the edge's composite key, so a like and a bookmark on the same content item
// are independent edges.
type ReactionKind string

const (
	// ReactionContent is a like on a content item.
	ReactionContent ReactionKind = "content"
	// ReactionComment is a like on a comment.
	ReactionComment ReactionKind = "comment"
	// ReactionBookmark is a bookmark on a content item.
	ReactionBookmark ReactionKind = "bookmark"
)

// Valid reports whether k is one of the known reaction kinds.
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionContent, ReactionComment, ReactionBookmark:
		return true
	}
	return false
}

// ReactionEdge is the togglable user↔target relation stored in MongoDB.
// A unique compound index on (user_id, target_id, kind) enforces that the
// edge exists at most once; existence means "active".
type ReactionEdge struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	TargetID  primitive.ObjectID `json:"target_id" bson:"target_id"`
	Kind      ReactionKind       `json:"kind" bson:"kind"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// ToggleResult is what a toggle reports back: the authoritative new state of
// the edge and the target's counter after the flip. Callers must reconcile
// from these values instead of assuming a fixed end state.
type ToggleResult struct {
	Active  bool  `json:"active"`
	Counter int64 `json:"counter"`
}

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	TargetID string `json:"target_id" validate:"required,len=24,hexadecimal"`
}
