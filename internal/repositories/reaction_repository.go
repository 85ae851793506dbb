package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
)

// ReactionRepository is the reaction ledger: it owns every create/destroy of
// a reaction edge and keeps the target's counter in lockstep with it.
type ReactionRepository interface {
	// Toggle flips the edge for (userID, targetID, kind) and adjusts the
	// target's counter by exactly ±1 in the same transaction. The returned
	// result carries the authoritative post-flip state.
	Toggle(ctx context.Context, userID uint, targetID string, kind models.ReactionKind) (models.ToggleResult, error)
	// IsActive reports whether the edge currently exists. Pure read.
	IsActive(ctx context.Context, userID uint, targetID string, kind models.ReactionKind) (bool, error)
	// CountForTarget counts the edges pointing at a target.
	CountForTarget(ctx context.Context, targetID string, kind models.ReactionKind) (int64, error)
}

// MongoReactionRepository implements ReactionRepository on MongoDB. Edges live
// in the reactions collection; counters live on the content/comment document
// the edge points at, so both mutations commit inside one session transaction
// and two users toggling the same target concurrently can never skew the count.
type MongoReactionRepository struct {
	client    *mongo.Client
	reactions *mongo.Collection
	contents  *mongo.Collection
	comments  *mongo.Collection
}

// NewMongoReactionRepository creates a new MongoReactionRepository
func NewMongoReactionRepository(client *mongo.Client, db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{
		client:    client,
		reactions: db.Collection("reactions"),
		contents:  db.Collection("contents"),
		comments:  db.Collection("comments"),
	}
}

// EnsureIndexes creates the unique compound index that makes the edge a
// composite key. Safe to call on every startup.
func (r *MongoReactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.reactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "target_id", Value: 1},
			{Key: "kind", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// counterLocation maps a reaction kind to the collection and counter field it
// maintains.
func (r *MongoReactionRepository) counterLocation(kind models.ReactionKind) (*mongo.Collection, string, error) {
	switch kind {
	case models.ReactionContent:
		return r.contents, "likes_count", nil
	case models.ReactionBookmark:
		return r.contents, "saves_count", nil
	case models.ReactionComment:
		return r.comments, "likes_count", nil
	}
	return nil, "", fmt.Errorf("unknown reaction kind %q", kind)
}

// Toggle flips edge existence and adjusts the counter atomically. Calling it
// twice restores the original state; callers must treat the returned Active
// as authoritative rather than assume a fixed end state.
func (r *MongoReactionRepository) Toggle(ctx context.Context, userID uint, targetID string, kind models.ReactionKind) (models.ToggleResult, error) {
	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return models.ToggleResult{}, apperrors.ErrNotFound
	}
	targetColl, counterField, err := r.counterLocation(kind)
	if err != nil {
		return models.ToggleResult{}, err
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	edgeFilter := bson.M{"user_id": userID, "target_id": objID, "kind": kind}

	out, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		del, err := r.reactions.DeleteOne(sc, edgeFilter)
		if err != nil {
			return nil, err
		}

		active := del.DeletedCount == 0
		delta := -1
		if active {
			delta = 1
			edge := models.ReactionEdge{
				UserID:    userID,
				TargetID:  objID,
				Kind:      kind,
				CreatedAt: time.Now(),
			}
			if _, err := r.reactions.InsertOne(sc, edge); err != nil {
				return nil, err
			}
		}

		var updated bson.M
		err = targetColl.FindOneAndUpdate(sc,
			bson.M{"_id": objID},
			bson.M{"$inc": bson.M{counterField: delta}},
			options.FindOneAndUpdate().
				SetReturnDocument(options.After).
				SetProjection(bson.M{counterField: 1}),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperrors.ErrNotFound
			}
			return nil, err
		}

		return models.ToggleResult{Active: active, Counter: asInt64(updated[counterField])}, nil
	})
	if err != nil {
		return models.ToggleResult{}, err
	}
	return out.(models.ToggleResult), nil
}

// IsActive reports whether the user currently has the given edge
func (r *MongoReactionRepository) IsActive(ctx context.Context, userID uint, targetID string, kind models.ReactionKind) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return false, apperrors.ErrNotFound
	}
	count, err := r.reactions.CountDocuments(ctx, bson.M{"user_id": userID, "target_id": objID, "kind": kind})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTarget counts the active edges for a target
func (r *MongoReactionRepository) CountForTarget(ctx context.Context, targetID string, kind models.ReactionKind) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return 0, apperrors.ErrNotFound
	}
	return r.reactions.CountDocuments(ctx, bson.M{"target_id": objID, "kind": kind})
}

// asInt64 normalizes the numeric BSON types a counter field can decode into.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
