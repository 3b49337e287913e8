package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const contentCollectionName = "contents"

// mongoContentRepository implements repository.ContentRepository
type mongoContentRepository struct {
	collection *mongo.Collection
}

// NewMongoContentRepository creates a new Content repository backed by MongoDB.
func NewMongoContentRepository(db *mongo.Database) repository.ContentRepository {
	return &mongoContentRepository{
		collection: db.Collection(contentCollectionName),
	}
}

// ListByCategory retrieves the content of one category, newest first.
func (r *mongoContentRepository) ListByCategory(ctx context.Context, category string) ([]domain.Content, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category}, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contents := []domain.Content{}
	if err = cursor.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// GetByID retrieves a content record by its ID.
func (r *mongoContentRepository) GetByID(ctx context.Context, id string) (*domain.Content, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var content domain.Content
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&content)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

// Create inserts a new content record. createdAt and updatedAt start equal.
func (r *mongoContentRepository) Create(ctx context.Context, content *domain.Content) error {
	if content.RemoteID == "" {
		return errors.New("content requires a stored file")
	}

	content.ID = primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond) // BSON dates keep milliseconds
	content.CreatedAt = now
	content.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, content); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// Update sets the provided fields and moves updatedAt forward. createdAt is never touched.
func (r *mongoContentRepository) Update(ctx context.Context, id string, patch domain.ContentPatch, file *domain.FileRef) (*domain.Content, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	set := bson.M{}
	setIfPresent(set, "title", patch.Title)
	setIfPresent(set, "description", patch.Description)
	setFile(set, file)

	var updated domain.Content
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		updatePipeline(set, time.Now().UTC().Truncate(time.Millisecond)),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes a content record and returns the removed document.
func (r *mongoContentRepository) Delete(ctx context.Context, id string) (*domain.Content, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var removed domain.Content
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &removed, nil
}

// EnsureContentIndexes creates necessary indexes for the content collection.
func EnsureContentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Category listing, newest first
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

func setIfPresent(set bson.M, field string, value *string) {
	if value != nil {
		set[field] = *value
	}
}

func setFile(set bson.M, file *domain.FileRef) {
	if file == nil {
		return
	}
	set["fileUrl"] = file.URL
	set["fileType"] = file.MimeType
	set["remoteFileId"] = file.RemoteID
}

// updatePipeline builds a one-stage update pipeline from set. Values go through
// $literal so text starting with "$" is stored as is. updatedAt becomes now, or
// one millisecond past the stored value when the clock has not moved on since
// the last write.
func updatePipeline(set bson.M, now time.Time) mongo.Pipeline {
	stage := bson.D{}
	for field, value := range set {
		stage = append(stage, bson.E{Key: field, Value: bson.M{"$literal": value}})
	}
	stage = append(stage, bson.E{Key: "updatedAt", Value: bson.M{
		"$max": bson.A{now, bson.M{"$add": bson.A{"$updatedAt", 1}}},
	}})
	return mongo.Pipeline{{{Key: "$set", Value: stage}}}
}
