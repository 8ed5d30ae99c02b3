package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/engagement"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentFilter narrows content listings. Zero values do not filter.
type ContentFilter struct {
	AuthorIDs     []uint
	Tag           string
	PublishedOnly bool
}

// ContentRepository defines the interface for content data operations
type ContentRepository interface {
	CreateContent(ctx context.Context, item *models.ContentItem) error
	GetContentByID(ctx context.Context, kind models.ContentKind, id string) (*models.ContentItem, error)
	ListContent(ctx context.Context, kind models.ContentKind, filter ContentFilter, skip, limit int64) ([]models.ContentItem, int64, error)
	ListSavedBy(ctx context.Context, kind models.ContentKind, userID uint, skip, limit int64) ([]models.ContentItem, error)
	ListCreatedSince(ctx context.Context, kind models.ContentKind, since time.Time) ([]models.ContentItem, error)
	UpdateContent(ctx context.Context, item *models.ContentItem) error
	DeleteContent(ctx context.Context, kind models.ContentKind, id string) error
	IncrementViews(ctx context.Context, kind models.ContentKind, id string) error
	ToggleEngagement(ctx context.Context, kind models.ContentKind, id string, action models.EngagementAction, userID uint) (bool, int, error)
	AppendComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error
	RemoveComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error
	CountContent(ctx context.Context, kind models.ContentKind) (int64, error)
}

// MongoContentRepository implements ContentRepository with one collection per content kind
type MongoContentRepository struct {
	db *mongo.Database
}

// NewMongoContentRepository creates a new MongoContentRepository
func NewMongoContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{db: db}
}

func (r *MongoContentRepository) collection(kind models.ContentKind) *mongo.Collection {
	return r.db.Collection(kind.Collection())
}

// EnsureIndexes creates the indexes backing listing, trending and saved queries
func (r *MongoContentRepository) EnsureIndexes(ctx context.Context) error {
	for _, kind := range models.ContentKinds {
		_, err := r.collection(kind).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
			{Keys: bson.D{{Key: "saved_by", Value: 1}}},
		})
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", kind.Collection(), err)
		}
	}
	return nil
}

func parseObjectID(kind models.ContentKind, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.KindBadRequest, fmt.Sprintf("invalid %s ID format", kind.Label()), err)
	}
	return objID, nil
}

func contentNotFound(kind models.ContentKind) error {
	return apperrors.NotFound(fmt.Sprintf("%s not found", kind.Label()))
}

// CreateContent inserts a new item. Engagement sets start empty rather than null so
// that $addToSet can be applied to them.
func (r *MongoContentRepository) CreateContent(ctx context.Context, item *models.ContentItem) error {
	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Likes == nil {
		item.Likes = engagement.Set{}
	}
	if item.SavedBy == nil {
		item.SavedBy = engagement.Set{}
	}
	if item.Kind.SupportsShares() && item.Shares == nil {
		item.Shares = engagement.Set{}
	}
	if item.CommentIDs == nil {
		item.CommentIDs = []uint{}
	}
	_, err := r.collection(item.Kind).InsertOne(ctx, item)
	return err
}

// GetContentByID retrieves an item by ID
func (r *MongoContentRepository) GetContentByID(ctx context.Context, kind models.ContentKind, id string) (*models.ContentItem, error) {
	objID, err := parseObjectID(kind, id)
	if err != nil {
		return nil, err
	}

	var item models.ContentItem
	err = r.collection(kind).FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contentNotFound(kind)
		}
		return nil, err
	}
	item.Kind = kind
	return &item, nil
}

func contentQuery(filter ContentFilter) bson.M {
	q := bson.M{}
	if len(filter.AuthorIDs) > 0 {
		q["author_id"] = bson.M{"$in": filter.AuthorIDs}
	}
	if filter.Tag != "" {
		q["tags"] = filter.Tag
	}
	if filter.PublishedOnly {
		q["published"] = true
	}
	return q
}

// ListContent pages through items newest first and returns the total matching count
func (r *MongoContentRepository) ListContent(ctx context.Context, kind models.ContentKind, filter ContentFilter, skip, limit int64) ([]models.ContentItem, int64, error) {
	q := contentQuery(filter)
	total, err := r.collection(kind).CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	items, err := r.find(ctx, kind, q, findOptions)
	return items, total, err
}

// ListSavedBy returns the items whose saved set contains userID
func (r *MongoContentRepository) ListSavedBy(ctx context.Context, kind models.ContentKind, userID uint, skip, limit int64) ([]models.ContentItem, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, kind, bson.M{"saved_by": userID}, findOptions)
}

// ListCreatedSince loads every published item created at or after since. No
// pagination: the whole window is held in memory by the caller.
func (r *MongoContentRepository) ListCreatedSince(ctx context.Context, kind models.ContentKind, since time.Time) ([]models.ContentItem, error) {
	return r.find(ctx, kind, bson.M{"published": true, "created_at": bson.M{"$gte": since}}, options.Find())
}

func (r *MongoContentRepository) find(ctx context.Context, kind models.ContentKind, q bson.M, opts *options.FindOptions) ([]models.ContentItem, error) {
	cursor, err := r.collection(kind).Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.ContentItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Kind = kind
	}
	return items, nil
}

// UpdateContent writes the editable fields of an item
func (r *MongoContentRepository) UpdateContent(ctx context.Context, item *models.ContentItem) error {
	item.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":      item.Title,
			"body":       item.Body,
			"image_urls": item.ImageURLs,
			"media_url":  item.MediaURL,
			"tags":       item.Tags,
			"location":   item.Location,
			"published":  item.Published,
			"updated_at": item.UpdatedAt,
		},
	}
	res, err := r.collection(item.Kind).UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contentNotFound(item.Kind)
	}
	return nil
}

// DeleteContent deletes an item by ID
func (r *MongoContentRepository) DeleteContent(ctx context.Context, kind models.ContentKind, id string) error {
	objID, err := parseObjectID(kind, id)
	if err != nil {
		return err
	}
	res, err := r.collection(kind).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return contentNotFound(kind)
	}
	return nil
}

// IncrementViews bumps the view counter atomically
func (r *MongoContentRepository) IncrementViews(ctx context.Context, kind models.ContentKind, id string) error {
	objID, err := parseObjectID(kind, id)
	if err != nil {
		return err
	}
	_, err = r.collection(kind).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// engagementSets is the projection returned by toggle updates
type engagementSets struct {
	Likes   engagement.Set `bson:"likes"`
	SavedBy engagement.Set `bson:"saved_by"`
	Shares  engagement.Set `bson:"shares"`
}

func (s engagementSets) count(action models.EngagementAction) int {
	switch action {
	case models.ActionSave:
		return s.SavedBy.Count()
	case models.ActionShare:
		return s.Shares.Count()
	default:
		return s.Likes.Count()
	}
}

// toggleAttempts bounds the pull/add loop when concurrent toggles by the same user keep
// flipping the membership between the two conditional updates
const toggleAttempts = 3

// ToggleEngagement flips userID's membership in the action's set without a
// read-modify-write: a conditional $pull is tried first, then a conditional
// $addToSet. Each update is atomic on the single document, so concurrent toggles
// never lose each other's writes. It returns the new membership and set size.
func (r *MongoContentRepository) ToggleEngagement(ctx context.Context, kind models.ContentKind, id string, action models.EngagementAction, userID uint) (bool, int, error) {
	objID, err := parseObjectID(kind, id)
	if err != nil {
		return false, 0, err
	}
	field := action.Field()
	coll := r.collection(kind)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{action.Field(): 1})

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		now := time.Now().UTC()

		var sets engagementSets
		err = coll.FindOneAndUpdate(ctx,
			bson.M{"_id": objID, field: userID},
			bson.M{"$pull": bson.M{field: userID}, "$set": bson.M{"updated_at": now}},
			opts,
		).Decode(&sets)
		if err == nil {
			return false, sets.count(action), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, err
		}

		err = coll.FindOneAndUpdate(ctx,
			bson.M{"_id": objID, field: bson.M{"$ne": userID}},
			bson.M{"$addToSet": bson.M{field: userID}, "$set": bson.M{"updated_at": now}},
			opts,
		).Decode(&sets)
		if err == nil {
			return true, sets.count(action), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, err
		}

		// Neither condition matched: the document is gone, or another toggle by
		// the same user landed between the two updates.
		n, err := coll.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return false, 0, err
		}
		if n == 0 {
			return false, 0, contentNotFound(kind)
		}
	}
	return false, 0, fmt.Errorf("toggle %s on %s %s: too much contention", action, kind.Label(), id)
}

// AppendComment pushes a comment id onto the end of the item's comment list
func (r *MongoContentRepository) AppendComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error {
	return r.updateComments(ctx, kind, id, bson.M{"$push": bson.M{"comment_ids": commentID}})
}

// RemoveComment pulls a comment id from the item's comment list
func (r *MongoContentRepository) RemoveComment(ctx context.Context, kind models.ContentKind, id string, commentID uint) error {
	return r.updateComments(ctx, kind, id, bson.M{"$pull": bson.M{"comment_ids": commentID}})
}

func (r *MongoContentRepository) updateComments(ctx context.Context, kind models.ContentKind, id string, update bson.M) error {
	objID, err := parseObjectID(kind, id)
	if err != nil {
		return err
	}
	res, err := r.collection(kind).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contentNotFound(kind)
	}
	return nil
}

// CountContent returns the number of items of one kind
func (r *MongoContentRepository) CountContent(ctx context.Context, kind models.ContentKind) (int64, error) {
	return r.collection(kind).CountDocuments(ctx, bson.M{})
}
