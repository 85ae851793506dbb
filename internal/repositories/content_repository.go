package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
)

// ContentRepository defines the interface for content item data operations
type ContentRepository interface {
	Create(ctx context.Context, item *models.ContentItem) error
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	GetBySlug(ctx context.Context, slug string) (*models.ContentItem, error)
	IncrementViews(ctx context.Context, id string) error
	Feed(ctx context.Context, q models.FeedQuery) ([]models.ContentItem, int64, error)
	ListPublished(ctx context.Context, limit int64) ([]models.ContentItem, error)
	Top(ctx context.Context, skip, limit int64) ([]models.ContentItem, int64, error)
}

// MongoContentRepository implements ContentRepository for MongoDB
type MongoContentRepository struct {
	collection *mongo.Collection
}

// NewMongoContentRepository creates a new MongoContentRepository
func NewMongoContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{collection: db.Collection("contents")}
}

// Create inserts a new content item. The category snapshots on the item are
// expected to be resolved by the caller before the write.
func (r *MongoContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	item.ID = primitive.NewObjectID()
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// GetByID retrieves a content item by its hex ID
func (r *MongoContentRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	var item models.ContentItem
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug retrieves a content item by its slug
func (r *MongoContentRepository) GetBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// IncrementViews bumps the view counter of a content item
func (r *MongoContentRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views_count": 1}})
	return err
}

// Feed runs the filtered, sorted, paginated feed query and returns the page
// plus the total count matching the filter.
func (r *MongoContentRepository) Feed(ctx context.Context, q models.FeedQuery) ([]models.ContentItem, int64, error) {
	filter := feedFilter(q)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(feedSort(q.SortBy)).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []models.ContentItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// feedFilter translates a FeedQuery into a Mongo filter document. The
// category restriction intersects the embedded snapshot list with the
// selected ids.
func feedFilter(q models.FeedQuery) bson.M {
	filter := bson.M{"published": true}
	if len(q.ContentTypeIDs) > 0 {
		filter["content_type_id"] = bson.M{"$in": q.ContentTypeIDs}
	}
	if len(q.CategoryIDs) > 0 {
		filter["categories.id"] = bson.M{"$in": q.CategoryIDs}
	}
	if since, ok := timeWindowStart(q.Time); ok {
		filter["created_at"] = bson.M{"$gte": since}
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"tags": re},
		}
	}
	return filter
}

func timeWindowStart(window string) (time.Time, bool) {
	now := time.Now()
	switch window {
	case models.TimeDay:
		return now.AddDate(0, 0, -1), true
	case models.TimeWeek:
		return now.AddDate(0, 0, -7), true
	case models.TimeMonth:
		return now.AddDate(0, -1, 0), true
	case models.TimeYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

func feedSort(sortBy string) bson.D {
	switch sortBy {
	case models.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	case models.SortMostViewed:
		return bson.D{{Key: "views_count", Value: -1}, {Key: "created_at", Value: -1}}
	case models.SortMostLiked:
		return bson.D{{Key: "likes_count", Value: -1}, {Key: "created_at", Value: -1}}
	case models.SortMostCommented:
		return bson.D{{Key: "comments_count", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// ListPublished returns up to limit published items, newest first. Used as
// the candidate pool for related-content ranking.
func (r *MongoContentRepository) ListPublished(ctx context.Context, limit int64) ([]models.ContentItem, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"published": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.ContentItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Top ranks published items by views + 2*likes + 3*comments and returns one
// page plus the total count of published items.
func (r *MongoContentRepository) Top(ctx context.Context, skip, limit int64) ([]models.ContentItem, int64, error) {
	match := bson.M{"published": true}

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"popularity": bson.M{"$add": bson.A{
				"$views_count",
				bson.M{"$multiply": bson.A{"$likes_count", 2}},
				bson.M{"$multiply": bson.A{"$comments_count", 3}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "popularity", Value: -1}, {Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []models.ContentItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
