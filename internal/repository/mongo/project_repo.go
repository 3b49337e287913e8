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

const projectCollectionName = "projects"

// mongoProjectRepository implements repository.ProjectRepository
type mongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new Project repository backed by MongoDB.
func NewMongoProjectRepository(db *mongo.Database) repository.ProjectRepository {
	return &mongoProjectRepository{
		collection: db.Collection(projectCollectionName),
	}
}

func (r *mongoProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []domain.Project{}
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *mongoProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var project domain.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *mongoProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project.RemoteID == "" {
		return errors.New("project requires a stored file")
	}

	project.ID = primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	project.CreatedAt = now
	project.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *mongoProjectRepository) Update(ctx context.Context, id string, patch domain.ProjectPatch, file *domain.FileRef) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	set := bson.M{}
	setIfPresent(set, "projectTitle", patch.ProjectTitle)
	setIfPresent(set, "studentName", patch.StudentName)
	setIfPresent(set, "rollNo", patch.RollNo)
	setIfPresent(set, "department", patch.Department)
	setIfPresent(set, "year", patch.Year)
	setIfPresent(set, "description", patch.Description)
	setFile(set, file)

	var updated domain.Project
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

func (r *mongoProjectRepository) Delete(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var removed domain.Project
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &removed, nil
}

// EnsureProjectIndexes creates necessary indexes for the projects collection.
func EnsureProjectIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
