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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByContent(ctx context.Context, contentID string, skip, limit int64) ([]models.Comment, int64, error)
	Delete(ctx context.Context, id string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB. Creating
// and deleting a comment adjusts the parent content's comments_count in the
// same transaction, mirroring how the reaction ledger keeps its counters.
type MongoCommentRepository struct {
	client   *mongo.Client
	comments *mongo.Collection
	contents *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(client *mongo.Client, db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		client:   client,
		comments: db.Collection("comments"),
		contents: db.Collection("contents"),
	}
}

// Create inserts the comment and bumps the content's comment counter. Fails
// with ErrNotFound when the content does not exist.
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.Status = models.CommentStatusVisible
	comment.CreatedAt = time.Now()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.contents.UpdateOne(sc,
			bson.M{"_id": comment.ContentID},
			bson.M{"$inc": bson.M{"comments_count": 1}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, apperrors.ErrNotFound
		}
		if _, err := r.comments.InsertOne(sc, comment); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// GetByID retrieves a comment by its hex ID
func (r *MongoCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByContent returns visible comments for a content item, newest first,
// plus the total visible count.
func (r *MongoCommentRepository) ListByContent(ctx context.Context, contentID string, skip, limit int64) ([]models.Comment, int64, error) {
	objID, err := primitive.ObjectIDFromHex(contentID)
	if err != nil {
		return nil, 0, apperrors.ErrNotFound
	}
	filter := bson.M{"content_id": objID, "status": models.CommentStatusVisible}

	total, err := r.comments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.comments.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Delete removes a comment and decrements the content's comment counter in
// the same transaction.
func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var comment models.Comment
		if err := r.comments.FindOneAndDelete(sc, bson.M{"_id": objID}).Decode(&comment); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperrors.ErrNotFound
			}
			return nil, err
		}
		_, err := r.contents.UpdateOne(sc,
			bson.M{"_id": comment.ContentID},
			bson.M{"$inc": bson.M{"comments_count": -1}},
		)
		return nil, err
	})
	return err
}
